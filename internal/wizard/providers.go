// internal/wizard/providers.go
package wizard

import "context"

// ExtractedKeyword is one keyword phrase returned by the extraction
// collaborator, with optional metric estimates as free-form strings.
type ExtractedKeyword struct {
	Keyword      string `json:"keyword"`
	SearchVolume string `json:"search_volume,omitempty"`
	Competition  string `json:"competition,omitempty"`
	Relevance    string `json:"relevance,omitempty"`
}

// GenerateRequest carries the draft snapshot handed to the generation
// collaborator.
type GenerateRequest struct {
	ASINs          []string       `json:"asins"`
	Products       []*ProductData `json:"products,omitempty"`
	ProductNotes   string         `json:"product_notes,omitempty"`
	Keywords       []string       `json:"keywords"`
	Style          Style          `json:"style"`
	Tone           int            `json:"tone"`
	KeywordDensity float64        `json:"keyword_density"`
}

// GeneratedListing is the generation result along with the identifier of the
// listing persisted by the collaborator.
type GeneratedListing struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bullet_points"`
	Description  string   `json:"description"`
	ListingID    string   `json:"listing_id"`
}

// ProductDataProvider fetches product data for one ASIN.
type ProductDataProvider interface {
	FetchProductData(ctx context.Context, asin string) (*ProductData, error)
}

// KeywordExtractor derives keyword suggestions from product content.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, title, description string, bulletPoints []string) ([]ExtractedKeyword, error)
}

// ListingGenerator produces final listing copy and persists it, returning the
// stored listing's identifier.
type ListingGenerator interface {
	GenerateListing(ctx context.Context, req GenerateRequest) (*GeneratedListing, error)
}
