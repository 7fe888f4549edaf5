package domain

import "time"

// HistoryRecord is one appended search, with the coarse location resolved at
// submission time. Records are append-only: the system never mutates or
// deletes them. ID and CreatedAt are assigned by the store on insert.
type HistoryRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Query       string    `json:"query"`
	IPAddress   string    `json:"ip_address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
}

// Location is a coarse user position, merged from an IP-based lookup and,
// when the browser shares them, high-accuracy coordinates.
type Location struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	HasCoords   bool    `json:"-"`
}

// MergeCoordinates overlays browser-supplied coordinates on an IP-derived
// location. Browser coordinates take precedence; IP-based fields remain the
// fallback for everything else.
func (l Location) MergeCoordinates(lat, lon float64) Location {
	l.Latitude = lat
	l.Longitude = lon
	l.HasCoords = true
	return l
}
