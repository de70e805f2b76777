// internal/keywords/usage_test.go
package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageMapMarksComponents(t *testing.T) {
	title := &Fragment{KeywordsUsed: []string{"wireless", "durable"}}
	features := &Fragment{KeywordsUsed: []string{"durable", "waterproof"}}
	description := &Fragment{KeywordsUsed: []string{"wireless"}}

	usages := UsageMap(title, features, description, "")

	byKeyword := make(map[string]KeywordUsage)
	for _, u := range usages {
		byKeyword[u.Keyword] = u
	}

	assert.Len(t, usages, 3)
	assert.Equal(t, KeywordUsage{Keyword: "wireless", Title: true, Description: true}, byKeyword["wireless"])
	assert.Equal(t, KeywordUsage{Keyword: "durable", Title: true, Features: true}, byKeyword["durable"])
	assert.Equal(t, KeywordUsage{Keyword: "waterproof", Features: true}, byKeyword["waterproof"])
}

func TestUsageMapIsCaseSensitive(t *testing.T) {
	title := &Fragment{KeywordsUsed: []string{"Wireless"}}
	features := &Fragment{KeywordsUsed: []string{"wireless"}}

	usages := UsageMap(title, features, nil, "")

	assert.Len(t, usages, 2)
}

func TestUsageMapActiveComponentSortsFirst(t *testing.T) {
	title := &Fragment{KeywordsUsed: []string{"zzz"}}
	features := &Fragment{KeywordsUsed: []string{"aaa"}}

	usages := UsageMap(title, features, nil, ComponentTitle)

	assert.Equal(t, "zzz", usages[0].Keyword)
	assert.Equal(t, "aaa", usages[1].Keyword)

	// Without an active component the order is purely alphabetical.
	usages = UsageMap(title, features, nil, "")
	assert.Equal(t, "aaa", usages[0].Keyword)
	assert.Equal(t, "zzz", usages[1].Keyword)
}

func TestUsageMapAlphabeticalWithinPartition(t *testing.T) {
	features := &Fragment{KeywordsUsed: []string{"beta", "alpha"}}
	description := &Fragment{KeywordsUsed: []string{"delta", "gamma"}}

	usages := UsageMap(nil, features, description, ComponentFeatures)

	assert.Equal(t, "alpha", usages[0].Keyword)
	assert.Equal(t, "beta", usages[1].Keyword)
	assert.Equal(t, "delta", usages[2].Keyword)
	assert.Equal(t, "gamma", usages[3].Keyword)
}

func TestUsageMapToleratesNilFragments(t *testing.T) {
	assert.Empty(t, UsageMap(nil, nil, nil, ""))

	title := &Fragment{}
	assert.Empty(t, UsageMap(title, nil, nil, ComponentTitle))
}
