// internal/models/analysis.go
package models

import "github.com/google/uuid"

// ListingAnalysis is one AI quality assessment of a listing version. Scoring
// runs asynchronously; the record is created pending and resolved to
// completed or failed.
type ListingAnalysis struct {
	BaseModel
	ListingID uuid.UUID      `json:"listing_id" gorm:"type:uuid;not null;index"`
	VersionID uuid.UUID      `json:"version_id" gorm:"type:uuid;not null;index"`
	Status    AnalysisStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Scores    JSONB          `json:"scores,omitempty" gorm:"type:jsonb"`
	Error     string         `json:"error,omitempty" gorm:"type:text"`

	Listing *Listing        `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Version *ListingVersion `json:"version,omitempty" gorm:"foreignKey:VersionID"`
}
