// internal/ai/prompts.go
package ai

import (
	"fmt"
	"strings"
)

func buildExtractionPrompt(title, description string, bulletPoints []string) string {
	var b strings.Builder
	b.WriteString("You are an Amazon SEO specialist. Extract the most relevant search keywords a shopper would use to find this product.\n\n")
	b.WriteString("Product title: " + title + "\n")
	if description != "" {
		b.WriteString("Product description: " + description + "\n")
	}
	if len(bulletPoints) > 0 {
		b.WriteString("Bullet points:\n")
		for _, bp := range bulletPoints {
			b.WriteString("- " + bp + "\n")
		}
	}
	b.WriteString(`
Return 15-25 keyword phrases as JSON with this exact shape:
{"keywords": [{"keyword": "...", "search_volume": "...", "competition": "low|medium|high", "relevance": "..."}]}
search_volume is your monthly estimate as a plain integer string. relevance is a 0-100 integer string. Return only JSON.`)
	return b.String()
}

func buildGenerationPrompt(params GenerateParams) string {
	var b strings.Builder
	b.WriteString("You are an expert Amazon listing copywriter. Write a complete product listing.\n\n")
	if len(params.ASINs) > 0 {
		b.WriteString("Reference ASINs: " + strings.Join(params.ASINs, ", ") + "\n")
	}
	if len(params.ProductTitles) > 0 {
		b.WriteString("Reference product titles:\n")
		for _, t := range params.ProductTitles {
			b.WriteString("- " + t + "\n")
		}
	}
	if params.ProductNotes != "" {
		b.WriteString("Additional product details: " + params.ProductNotes + "\n")
	}
	b.WriteString("Target keywords: " + strings.Join(params.Keywords, ", ") + "\n")
	b.WriteString(fmt.Sprintf("Writing style: %s. Tone level: %d/10 (1 = reserved, 10 = enthusiastic). Keyword density: %.0f%%.\n", params.Style, params.Tone, params.KeywordDensity*100))
	b.WriteString(`
Requirements: title under 200 characters, exactly 5 bullet points, description of 3-4 paragraphs. Work the target keywords in naturally.
Return JSON with this exact shape:
{"title": "...", "bullet_points": ["..."], "description": "...", "keywords_used": {"title": ["..."], "features": ["..."], "description": ["..."]}}
keywords_used lists, for each section, which of the target keywords appear in it verbatim. Return only JSON.`)
	return b.String()
}

func buildScoringPrompt(title string, bulletPoints []string, description string) string {
	var b strings.Builder
	b.WriteString("You are an Amazon listing quality auditor. Score this listing.\n\n")
	b.WriteString("Title: " + title + "\n")
	b.WriteString("Bullet points:\n")
	for _, bp := range bulletPoints {
		b.WriteString("- " + bp + "\n")
	}
	b.WriteString("Description: " + description + "\n")
	b.WriteString(`
Score each dimension 0-100: overall, title (clarity and keyword placement), features (benefit focus), description (persuasiveness and structure), keywords (coverage and natural use).
Return JSON with this exact shape:
{"overall": 0, "title": 0, "features": 0, "description": 0, "keywords": 0, "summary": "...", "suggestions": ["..."]}
Give 3-5 concrete suggestions. Return only JSON.`)
	return b.String()
}
