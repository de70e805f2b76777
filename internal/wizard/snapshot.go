// internal/wizard/snapshot.go
package wizard

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the explicit serialization boundary for the subset of a draft
// that survives reloads: ASINs, keywords, style settings, generated content
// and the current step. In-flight fetches do not survive; a loading entry is
// rehydrated as idle so the user can retrigger it.
type Snapshot struct {
	Asins           []*AsinEntry      `json:"asins"`
	Keywords        []*Keyword        `json:"keywords"`
	Style           Style             `json:"style"`
	Tone            int               `json:"tone"`
	KeywordDensity  float64           `json:"keyword_density"`
	ProductNotes    string            `json:"product_notes,omitempty"`
	Generated       *GeneratedContent `json:"generated,omitempty"`
	ListingID       string            `json:"listing_id,omitempty"`
	Step            int               `json:"step"`
	GenerationError string            `json:"generation_error,omitempty"`
	Completed       bool              `json:"completed"`
}

// Snapshot captures the persistable state of the session.
func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &Snapshot{
		Style:           c.draft.Style,
		Tone:            c.draft.Tone,
		KeywordDensity:  c.draft.KeywordDensity,
		ProductNotes:    c.draft.ProductNotes,
		ListingID:       c.draft.ListingID,
		Step:            c.draft.Step,
		GenerationError: c.draft.GenerationError,
		Completed:       c.draft.Completed,
	}
	for _, e := range c.draft.Asins {
		copied := *e
		snap.Asins = append(snap.Asins, &copied)
	}
	for _, kw := range c.draft.Keywords {
		copied := *kw
		snap.Keywords = append(snap.Keywords, &copied)
	}
	if c.draft.Generated != nil {
		content := *c.draft.Generated
		snap.Generated = &content
	}
	return snap
}

// Restore replaces the controller's draft with the snapshot's state. Entries
// that were loading when the snapshot was taken come back idle.
func (c *Controller) Restore(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft := NewDraft()
	if ValidStyle(snap.Style) {
		draft.Style = snap.Style
	}
	if snap.Tone >= 1 && snap.Tone <= 10 {
		draft.Tone = snap.Tone
	}
	if snap.KeywordDensity >= 0 && snap.KeywordDensity <= 1 {
		draft.KeywordDensity = snap.KeywordDensity
	}
	draft.ProductNotes = snap.ProductNotes
	draft.ListingID = snap.ListingID
	draft.GenerationError = snap.GenerationError
	draft.Completed = snap.Completed
	if snap.Step >= StepAsins && snap.Step <= StepReview {
		draft.Step = snap.Step
	}

	for _, e := range snap.Asins {
		copied := *e
		if copied.FetchStatus == FetchStatusLoading {
			copied.FetchStatus = FetchStatusIdle
		}
		draft.Asins = append(draft.Asins, &copied)
	}
	for _, kw := range snap.Keywords {
		copied := *kw
		draft.Keywords = append(draft.Keywords, &copied)
	}
	if snap.Generated != nil {
		content := *snap.Generated
		draft.Generated = &content
	}

	c.draft = draft
}

// MarshalSnapshot serializes a snapshot for storage.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot deserializes a stored snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft snapshot: %w", err)
	}
	return &snap, nil
}
