// internal/ai/parse_test.go
package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	raw := []byte(`{"keywords":[
		{"keyword":"wireless earbuds","search_volume":"1200","competition":"low","relevance":"high"},
		{"keyword":"  noise cancelling  "},
		{"keyword":"   "}
	]}`)

	keywords, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "wireless earbuds", keywords[0].Keyword)
	assert.Equal(t, "1200", keywords[0].SearchVolume)
	assert.Equal(t, "noise cancelling", keywords[1].Keyword)
}

func TestParseExtractionStripsMarkdownFences(t *testing.T) {
	raw := []byte("```json\n{\"keywords\":[{\"keyword\":\"usb hub\"}]}\n```")

	keywords, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "usb hub", keywords[0].Keyword)
}

func TestParseExtractionMissingKeywordsField(t *testing.T) {
	_, err := ParseExtraction([]byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestParseExtractionRejectsUnknownFields(t *testing.T) {
	_, err := ParseExtraction([]byte(`{"keywords":[],"confidence":0.9}`))
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestParseExtractionRejectsTrailingData(t *testing.T) {
	_, err := ParseExtraction([]byte(`{"keywords":[{"keyword":"wireless"}]} Hope this helps!`))
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestParseExtractionRejectsNonJSON(t *testing.T) {
	_, err := ParseExtraction([]byte("Here are your keywords: wireless earbuds"))
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestParseGeneration(t *testing.T) {
	raw := []byte(`{
		"title":"Premium Wireless Earbuds",
		"bullet_points":["Long battery life","Fast pairing"],
		"description":"A long form description.",
		"keywords_used":{
			"title":["wireless earbuds"],
			"features":["battery life"],
			"description":["wireless earbuds","battery life"]
		}
	}`)

	copyOut, err := ParseGeneration(raw)
	require.NoError(t, err)
	assert.Equal(t, "Premium Wireless Earbuds", copyOut.Title)
	assert.Len(t, copyOut.BulletPoints, 2)
	assert.Equal(t, []string{"wireless earbuds"}, copyOut.TitleKeywords)
	assert.Equal(t, []string{"battery life"}, copyOut.FeatureKeywords)
	assert.Len(t, copyOut.DescriptionKeywords, 2)
}

func TestParseGenerationKeywordTagsOptional(t *testing.T) {
	raw := []byte(`{
		"title":"Title",
		"bullet_points":["One"],
		"description":"Description."
	}`)

	copyOut, err := ParseGeneration(raw)
	require.NoError(t, err)
	assert.Empty(t, copyOut.TitleKeywords)
	assert.Empty(t, copyOut.FeatureKeywords)
	assert.Empty(t, copyOut.DescriptionKeywords)
}

func TestParseGenerationMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"missing title":       `{"bullet_points":["One"],"description":"D."}`,
		"empty title":         `{"title":"  ","bullet_points":["One"],"description":"D."}`,
		"no bullets":          `{"title":"T","bullet_points":[],"description":"D."}`,
		"missing description": `{"title":"T","bullet_points":["One"]}`,
	}

	for name, raw := range cases {
		_, err := ParseGeneration([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedAIResponse, name)
	}
}

func TestParseScores(t *testing.T) {
	raw := []byte(`{
		"overall":82,
		"title":90,
		"features":75,
		"description":80,
		"keywords":85,
		"summary":"Solid listing with room to improve features.",
		"suggestions":["Add dimensions","Mention warranty"]
	}`)

	scores, err := ParseScores(raw)
	require.NoError(t, err)
	assert.Equal(t, 82, scores.Overall)
	assert.Equal(t, 90, scores.Title)
	assert.Equal(t, 75, scores.Features)
	assert.Len(t, scores.Suggestions, 2)
}

func TestParseScoresZeroIsValid(t *testing.T) {
	raw := []byte(`{"overall":0,"title":0,"features":0,"description":0,"keywords":0,"summary":"","suggestions":[]}`)

	scores, err := ParseScores(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, scores.Overall)
}

func TestParseScoresMissingScore(t *testing.T) {
	raw := []byte(`{"overall":82,"title":90,"features":75,"description":80,"summary":"s"}`)

	_, err := ParseScores(raw)
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
	assert.Contains(t, err.Error(), "keywords")
}

func TestParseScoresOutOfRange(t *testing.T) {
	raw := []byte(`{"overall":101,"title":90,"features":75,"description":80,"keywords":85}`)

	_, err := ParseScores(raw)
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(stripFences([]byte("```json\n{\"a\":1}\n```"))))
	assert.Equal(t, `{"a":1}`, string(stripFences([]byte("```\n{\"a\":1}\n```"))))
	assert.Equal(t, `{"a":1}`, string(stripFences([]byte(` {"a":1} `))))
}
