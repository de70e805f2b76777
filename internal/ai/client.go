// internal/ai/client.go
package ai

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/config"
)

// Client wraps the Gemini API for the three listing operations: keyword
// extraction, listing generation and quality scoring. All responses are
// requested as JSON and go through the strict parsers in parse.go.
type Client struct {
	client *genai.Client
	model  string
	log    *logrus.Entry
}

func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		log:    logrus.WithField("component", "ai"),
	}, nil
}

// ExtractedKeyword is one keyword phrase suggested for the given product
// content, with optional metric estimates.
type ExtractedKeyword struct {
	Keyword      string `json:"keyword"`
	SearchVolume string `json:"search_volume,omitempty"`
	Competition  string `json:"competition,omitempty"`
	Relevance    string `json:"relevance,omitempty"`
}

// GeneratedCopy is a full set of listing copy plus the keywords the model
// reports using in each fragment.
type GeneratedCopy struct {
	Title               string   `json:"title"`
	BulletPoints        []string `json:"bullet_points"`
	Description         string   `json:"description"`
	TitleKeywords       []string `json:"title_keywords"`
	FeatureKeywords     []string `json:"feature_keywords"`
	DescriptionKeywords []string `json:"description_keywords"`
}

// QualityScores is the AI assessment of one listing version.
type QualityScores struct {
	Overall     int      `json:"overall"`
	Title       int      `json:"title"`
	Features    int      `json:"features"`
	Description int      `json:"description"`
	Keywords    int      `json:"keywords"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// GenerateParams carries the draft snapshot used to build the generation
// prompt.
type GenerateParams struct {
	ASINs          []string
	ProductTitles  []string
	ProductNotes   string
	Keywords       []string
	Style          string
	Tone           int
	KeywordDensity float64
}

// ExtractKeywords asks the model for keyword suggestions derived from
// product content. description and bulletPoints may be empty.
func (c *Client) ExtractKeywords(ctx context.Context, title, description string, bulletPoints []string) ([]ExtractedKeyword, error) {
	prompt := buildExtractionPrompt(title, description, bulletPoints)
	raw, err := c.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseExtraction(raw)
}

// GenerateListing produces listing copy for the draft snapshot.
func (c *Client) GenerateListing(ctx context.Context, params GenerateParams) (*GeneratedCopy, error) {
	prompt := buildGenerationPrompt(params)
	raw, err := c.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseGeneration(raw)
}

// ScoreListing assesses the quality of one listing version.
func (c *Client) ScoreListing(ctx context.Context, title string, bulletPoints []string, description string) (*QualityScores, error) {
	prompt := buildScoringPrompt(title, bulletPoints, description)
	raw, err := c.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseScores(raw)
}

// generateJSON runs one generation call with a JSON response type. Transport
// and API failures come back as wrapped errors, distinct from the
// ErrMalformedAIResponse the parsers return for schema violations.
func (c *Client) generateJSON(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("AI request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty model response", ErrMalformedAIResponse)
	}
	return []byte(text), nil
}
