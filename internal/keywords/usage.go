// internal/keywords/usage.go
package keywords

import "sort"

// Content components a keyword can appear in.
const (
	ComponentTitle       = "title"
	ComponentFeatures    = "features"
	ComponentDescription = "description"
)

// Fragment is one piece of generated content together with the keywords the
// generator reported using in it. KeywordsUsed may be nil.
type Fragment struct {
	KeywordsUsed []string `json:"keywords_used"`
}

// KeywordUsage reports, for one raw keyword text, which content fragments
// use it.
type KeywordUsage struct {
	Keyword     string `json:"keyword"`
	Title       bool   `json:"title"`
	Features    bool   `json:"features"`
	Description bool   `json:"description"`
}

// UsageMap computes per-keyword usage flags across the three content
// fragments. Keywords are keyed by raw text: unlike Aggregate, differently
// cased variants stay distinct here, matching how generated content reports
// its own keyword tags.
//
// Any fragment may be nil or carry a nil KeywordsUsed. The result is ordered
// with keywords used in the active component (one of the Component constants,
// or empty for none) first, alphabetically within each partition.
func UsageMap(title, features, description *Fragment, active string) []KeywordUsage {
	index := make(map[string]int)
	var usages []KeywordUsage

	record := func(frag *Fragment, mark func(u *KeywordUsage)) {
		if frag == nil {
			return
		}
		for _, kw := range frag.KeywordsUsed {
			i, ok := index[kw]
			if !ok {
				index[kw] = len(usages)
				usages = append(usages, KeywordUsage{Keyword: kw})
				i = len(usages) - 1
			}
			mark(&usages[i])
		}
	}

	record(title, func(u *KeywordUsage) { u.Title = true })
	record(features, func(u *KeywordUsage) { u.Features = true })
	record(description, func(u *KeywordUsage) { u.Description = true })

	inActive := func(u KeywordUsage) bool {
		switch active {
		case ComponentTitle:
			return u.Title
		case ComponentFeatures:
			return u.Features
		case ComponentDescription:
			return u.Description
		}
		return false
	}

	sort.SliceStable(usages, func(a, b int) bool {
		ua, ub := usages[a], usages[b]
		if aa, ab := inActive(ua), inActive(ub); aa != ab {
			return aa
		}
		return ua.Keyword < ub.Keyword
	})

	return usages
}
