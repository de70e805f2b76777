// internal/keywords/aggregator.go
package keywords

import (
	"sort"
	"strconv"
	"strings"
)

// Record is a single keyword as captured during extraction or manual entry.
// Records are never deduplicated at write time; the same text may appear once
// per contributing ASIN so that per-source metadata survives. Display-level
// merging happens in Aggregate.
type Record struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	SourceASIN   string `json:"source_asin,omitempty"` // empty = manually added
	SearchVolume string `json:"search_volume,omitempty"`
	Competition  string `json:"competition,omitempty"`
	Relevance    string `json:"relevance,omitempty"`
	Selected     bool   `json:"selected"`
}

// Group is one display row: all records sharing a lowercase text, represented
// by the first record encountered.
type Group struct {
	Representative *Record  `json:"representative"`
	SourceCount    int      `json:"source_count"`
	Sources        []string `json:"sources"`
	Selected       bool     `json:"selected"`

	maxVolume int
}

// Aggregate merges records case-insensitively by text and orders the groups
// for display. It is a pure function of its input and is recomputed on every
// read; callers must not mutate the returned representatives.
//
// Sort precedence: selected groups first, then more contributing ASINs, then
// higher search volume, then case-insensitive text.
func Aggregate(records []*Record) []Group {
	groups := make([]Group, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		key := strings.ToLower(rec.Text)
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, Group{Representative: rec})
			i = len(groups) - 1
		}
		g := &groups[i]
		if rec.Selected {
			g.Selected = true
		}
		if v := parseVolume(rec.SearchVolume); v > g.maxVolume {
			g.maxVolume = v
		}
		if rec.SourceASIN != "" && !containsString(g.Sources, rec.SourceASIN) {
			g.Sources = append(g.Sources, rec.SourceASIN)
		}
	}

	for i := range groups {
		groups[i].SourceCount = len(groups[i].Sources)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := &groups[a], &groups[b]
		if ga.Selected != gb.Selected {
			return ga.Selected
		}
		if ga.SourceCount != gb.SourceCount {
			return ga.SourceCount > gb.SourceCount
		}
		if ga.maxVolume != gb.maxVolume {
			return ga.maxVolume > gb.maxVolume
		}
		return strings.ToLower(ga.Representative.Text) < strings.ToLower(gb.Representative.Text)
	})

	return groups
}

// Filter keeps only groups whose text contains the query, case-insensitively.
// An empty query returns the input unchanged.
func Filter(groups []Group, query string) []Group {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return groups
	}

	filtered := make([]Group, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Representative.Text), query) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// parseVolume reads a search volume like "1200" or "1,200"; anything
// non-numeric counts as 0.
func parseVolume(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
