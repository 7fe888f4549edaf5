package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/utils"
)

// DefaultLookupTimeout bounds one IP geolocation call.
const DefaultLookupTimeout = 10 * time.Second

// Resolver turns a client IP into a coarse location via an ipapi-shaped
// HTTP endpoint. Lookups are best effort: search history degrades to empty
// location fields when a lookup fails.
type Resolver struct {
	baseURL string
	http    *http.Client
}

// NewResolver builds a geolocation resolver.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultLookupTimeout},
	}
}

// apiResponse mirrors the ipapi wire shape.
type apiResponse struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Lookup resolves one IP. Private and loopback addresses are not routable
// by the upstream service, so they short-circuit to an IP-only location.
func (r *Resolver) Lookup(ctx context.Context, ip string) (domain.Location, error) {
	loc := domain.Location{IP: ip}

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return loc, nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultLookupTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json/", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return loc, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return loc, fmt.Errorf("geolocation lookup failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return loc, fmt.Errorf("geolocation endpoint returned status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return loc, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	loc.City = decoded.City
	loc.Country = decoded.CountryName
	loc.CountryCode = decoded.CountryCode
	loc.Latitude = decoded.Latitude
	loc.Longitude = decoded.Longitude
	loc.HasCoords = decoded.Latitude != 0 || decoded.Longitude != 0
	return loc, nil
}
