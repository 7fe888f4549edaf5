package redis

const (
	// KeyPrefixPromotion is the prefix for promotion records.
	KeyPrefixPromotion = "vdsearch:promotion:"
	// KeyPromotionsByCreated is the sorted set of promotion ids scored by
	// creation time, used for creation-time-descending listing.
	KeyPromotionsByCreated = "vdsearch:promotions:created"
	// KeyHistory is the list holding search history records, newest first.
	KeyHistory = "vdsearch:history"
)

// PromotionKey returns the Redis key for a promotion by id.
func PromotionKey(id string) string {
	return KeyPrefixPromotion + id
}
