package seed

// File is the top-level structure of a promotions seed file.
type File struct {
	Promotions []PromotionProps `yaml:"promotions"`
}

// PromotionProps contains the seed properties for one promotion.
type PromotionProps struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	URL         string   `yaml:"url"`
	Queries     []string `yaml:"queries"`
}
