// internal/models/draft.go
package models

import "github.com/google/uuid"

// DraftSession is the persisted subset of an in-progress wizard session:
// the serialized draft snapshot plus enough metadata to scope and resume it.
// The snapshot shape is owned by the wizard package.
type DraftSession struct {
	BaseModel
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	State     RawJSON    `json:"state" gorm:"type:jsonb"`
	Completed bool       `json:"completed" gorm:"default:false;index"`
	ListingID *uuid.UUID `json:"listing_id,omitempty" gorm:"type:uuid"`
}
