// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Listing is the persisted aggregate for one product's marketing copy. The
// actual copy lives in versions; exactly one version is current at a time,
// enforced transactionally by the listing service.
type Listing struct {
	BaseModel
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Marketplace string         `json:"marketplace" gorm:"size:20;default:'US'"`
	SourceASINs pq.StringArray `json:"source_asins" gorm:"type:text[]"`
	Style       string         `json:"style" gorm:"size:50"`
	Tone        int            `json:"tone" gorm:"default:5"`
	Images      pq.StringArray `json:"images,omitempty" gorm:"type:text[]"`
	Status      ListingStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Relationships
	Versions []ListingVersion  `json:"versions,omitempty" gorm:"foreignKey:ListingID"`
	Analyses []ListingAnalysis `json:"analyses,omitempty" gorm:"foreignKey:ListingID"`
}

// ListingVersion is an immutable snapshot of a listing's copy. KeywordsUsed
// holds the per-fragment keyword tags reported at generation time, keyed
// "title"/"features"/"description"; Keywords is the flat tag list shown in
// the keyword panel and editable on its own.
type ListingVersion struct {
	BaseModel
	ListingID     uuid.UUID      `json:"listing_id" gorm:"type:uuid;not null;index"`
	VersionNumber int            `json:"version_number" gorm:"not null"`
	Title         string         `json:"title" gorm:"size:500;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	BulletPoints  pq.StringArray `json:"bullet_points" gorm:"type:text[]"`
	Keywords      pq.StringArray `json:"keywords" gorm:"type:text[]"`
	KeywordsUsed  JSONB          `json:"keywords_used" gorm:"type:jsonb"`
	IsCurrent     bool           `json:"is_current" gorm:"default:false;index"`

	Listing *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}

// FragmentKeywords reads one fragment's keyword tags out of KeywordsUsed.
// Missing or malformed entries come back as nil.
func (v *ListingVersion) FragmentKeywords(fragment string) []string {
	if v.KeywordsUsed == nil {
		return nil
	}
	raw, ok := v.KeywordsUsed[fragment]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
