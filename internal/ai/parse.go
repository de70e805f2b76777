// internal/ai/parse.go
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedAIResponse marks model output that does not match the expected
// JSON schema. It is deliberately distinct from transport errors so callers
// can tell a failed request from a bad completion.
var ErrMalformedAIResponse = errors.New("malformed AI response")

type extractionPayload struct {
	Keywords []ExtractedKeyword `json:"keywords"`
}

type generationPayload struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bullet_points"`
	Description  string   `json:"description"`
	KeywordsUsed struct {
		Title       []string `json:"title"`
		Features    []string `json:"features"`
		Description []string `json:"description"`
	} `json:"keywords_used"`
}

type scoresPayload struct {
	Overall     *int     `json:"overall"`
	Title       *int     `json:"title"`
	Features    *int     `json:"features"`
	Description *int     `json:"description"`
	Keywords    *int     `json:"keywords"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// ParseExtraction validates and decodes a keyword extraction response.
func ParseExtraction(raw []byte) ([]ExtractedKeyword, error) {
	var payload extractionPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, err
	}
	if payload.Keywords == nil {
		return nil, fmt.Errorf("%w: missing keywords field", ErrMalformedAIResponse)
	}

	keywords := make([]ExtractedKeyword, 0, len(payload.Keywords))
	for _, kw := range payload.Keywords {
		kw.Keyword = strings.TrimSpace(kw.Keyword)
		if kw.Keyword == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	return keywords, nil
}

// ParseGeneration validates and decodes a listing generation response. The
// three content fields are required; the per-fragment keyword tags are
// optional and default to empty.
func ParseGeneration(raw []byte) (*GeneratedCopy, error) {
	var payload generationPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedAIResponse)
	}
	if len(payload.BulletPoints) == 0 {
		return nil, fmt.Errorf("%w: missing bullet_points", ErrMalformedAIResponse)
	}
	if strings.TrimSpace(payload.Description) == "" {
		return nil, fmt.Errorf("%w: missing description", ErrMalformedAIResponse)
	}

	return &GeneratedCopy{
		Title:               payload.Title,
		BulletPoints:        payload.BulletPoints,
		Description:         payload.Description,
		TitleKeywords:       payload.KeywordsUsed.Title,
		FeatureKeywords:     payload.KeywordsUsed.Features,
		DescriptionKeywords: payload.KeywordsUsed.Description,
	}, nil
}

// ParseScores validates and decodes a quality scoring response. Every score
// must be present and within 0..100.
func ParseScores(raw []byte) (*QualityScores, error) {
	var payload scoresPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, err
	}

	scores := map[string]*int{
		"overall":     payload.Overall,
		"title":       payload.Title,
		"features":    payload.Features,
		"description": payload.Description,
		"keywords":    payload.Keywords,
	}
	for name, score := range scores {
		if score == nil {
			return nil, fmt.Errorf("%w: missing %s score", ErrMalformedAIResponse, name)
		}
		if *score < 0 || *score > 100 {
			return nil, fmt.Errorf("%w: %s score %d out of range", ErrMalformedAIResponse, name, *score)
		}
	}

	return &QualityScores{
		Overall:     *payload.Overall,
		Title:       *payload.Title,
		Features:    *payload.Features,
		Description: *payload.Description,
		Keywords:    *payload.Keywords,
		Summary:     payload.Summary,
		Suggestions: payload.Suggestions,
	}, nil
}

// decodeStrict strips markdown fences the model sometimes wraps JSON in,
// then decodes rejecting unknown fields.
func decodeStrict(raw []byte, v interface{}) error {
	cleaned := stripFences(raw)
	dec := json.NewDecoder(bytes.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAIResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON value", ErrMalformedAIResponse)
	}
	return nil
}

func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return []byte(s)
}
