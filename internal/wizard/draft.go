// internal/wizard/draft.go
package wizard

import (
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/keywords"
)

// Wizard steps.
const (
	StepAsins    = 0
	StepKeywords = 1
	StepStyle    = 2
	StepGenerate = 3
	StepReview   = 4
)

type FetchStatus string

const (
	FetchStatusIdle    FetchStatus = "idle"
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusError   FetchStatus = "error"
)

// Style presets for generated copy.
type Style string

const (
	StyleProfessional Style = "professional"
	StyleCasual       Style = "casual"
	StyleTechnical    Style = "technical"
	StyleLuxury       Style = "luxury"
	StylePlayful      Style = "playful"
)

func ValidStyle(s Style) bool {
	switch s {
	case StyleProfessional, StyleCasual, StyleTechnical, StyleLuxury, StylePlayful:
		return true
	}
	return false
}

// ProductData is what the product-data provider returns for one ASIN.
type ProductData struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	BulletPoints []string `json:"bullet_points"`
	Brand        string   `json:"brand,omitempty"`
	Price        string   `json:"price,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// AsinEntry tracks one submitted ASIN through its fetch/extract chain.
type AsinEntry struct {
	ASIN            string       `json:"asin"`
	FetchStatus     FetchStatus  `json:"fetch_status"`
	Error           string       `json:"error,omitempty"`
	ExtractionError string       `json:"extraction_error,omitempty"`
	Product         *ProductData `json:"product,omitempty"`
}

// Keyword is a single keyword record in the draft. Dedup across sources
// happens only at the presentation layer (keywords.Aggregate).
type Keyword = keywords.Record

// GeneratedContent is the output of a successful generation call.
type GeneratedContent struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bullet_points"`
	Description  string   `json:"description"`
}

// Draft is the in-progress listing assembled during one wizard session.
// It is owned by a Controller; all access goes through the controller mutex.
type Draft struct {
	Asins           []*AsinEntry
	Keywords        []*Keyword
	Style           Style
	Tone            int
	KeywordDensity  float64
	ProductNotes    string
	Generated       *GeneratedContent
	ListingID       string
	Step            int
	GenerationError string
	Completed       bool
}

// NewDraft returns a fresh draft at step 0 with default style settings.
func NewDraft() *Draft {
	return &Draft{
		Style:          StyleProfessional,
		Tone:           5,
		KeywordDensity: 0.5,
	}
}

func (d *Draft) findAsin(asin string) *AsinEntry {
	for _, e := range d.Asins {
		if e.ASIN == asin {
			return e
		}
	}
	return nil
}

// removeAsin deletes the entry and cascades removal of every keyword the
// ASIN contributed. Manually added keywords and other sources are untouched.
func (d *Draft) removeAsin(asin string) bool {
	idx := -1
	for i, e := range d.Asins {
		if e.ASIN == asin {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d.Asins = append(d.Asins[:idx], d.Asins[idx+1:]...)

	kept := d.Keywords[:0]
	for _, kw := range d.Keywords {
		if kw.SourceASIN != asin {
			kept = append(kept, kw)
		}
	}
	d.Keywords = kept
	return true
}

func (d *Draft) findKeyword(id string) *Keyword {
	for _, kw := range d.Keywords {
		if kw.ID == id {
			return kw
		}
	}
	return nil
}

// selectedKeywordTexts returns the deduplicated (case-insensitive,
// first-seen casing kept) texts of all selected keywords, in insertion order.
func (d *Draft) selectedKeywordTexts() []string {
	seen := make(map[string]bool)
	var texts []string
	for _, kw := range d.Keywords {
		if !kw.Selected {
			continue
		}
		key := lowerText(kw.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		texts = append(texts, kw.Text)
	}
	return texts
}
