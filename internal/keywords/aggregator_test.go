// internal/keywords/aggregator_test.go
package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(text, source string, selected bool, volume string) *Record {
	return &Record{
		ID:           text + "/" + source,
		Text:         text,
		SourceASIN:   source,
		SearchVolume: volume,
		Selected:     selected,
	}
}

func TestAggregateMergesCaseInsensitively(t *testing.T) {
	records := []*Record{
		rec("Wireless Earbuds", "B000000001", true, "1200"),
		rec("wireless earbuds", "B000000002", true, "900"),
		rec("noise cancelling", "B000000001", true, "400"),
	}

	groups := Aggregate(records)

	assert.Len(t, groups, 2)
	assert.Equal(t, "Wireless Earbuds", groups[0].Representative.Text)
	assert.Equal(t, 2, groups[0].SourceCount)
	assert.ElementsMatch(t, []string{"B000000001", "B000000002"}, groups[0].Sources)
	assert.Equal(t, "noise cancelling", groups[1].Representative.Text)
	assert.Equal(t, 1, groups[1].SourceCount)
}

func TestAggregateRepresentativeIsFirstEncountered(t *testing.T) {
	records := []*Record{
		rec("USB-C Cable", "B000000001", true, ""),
		rec("usb-c cable", "B000000002", true, ""),
		rec("USB-C CABLE", "", true, ""),
	}

	groups := Aggregate(records)

	assert.Len(t, groups, 1)
	assert.Equal(t, "USB-C Cable", groups[0].Representative.Text)
	// Manual record contributes no source.
	assert.Equal(t, 2, groups[0].SourceCount)
}

func TestAggregateSelectedGroupsSortFirst(t *testing.T) {
	records := []*Record{
		rec("aaa", "B000000001", false, "9999"),
		rec("zzz", "B000000002", true, ""),
	}

	groups := Aggregate(records)

	assert.Equal(t, "zzz", groups[0].Representative.Text)
	assert.True(t, groups[0].Selected)
	assert.Equal(t, "aaa", groups[1].Representative.Text)
	assert.False(t, groups[1].Selected)
}

func TestAggregateGroupIsSelectedIfAnyMemberIs(t *testing.T) {
	records := []*Record{
		rec("bamboo cutting board", "B000000001", false, ""),
		rec("Bamboo Cutting Board", "B000000002", true, ""),
	}

	groups := Aggregate(records)

	assert.Len(t, groups, 1)
	assert.True(t, groups[0].Selected)
}

func TestAggregateSortsBySourceCountThenVolume(t *testing.T) {
	records := []*Record{
		rec("single source high volume", "B000000001", true, "5,000"),
		rec("two sources", "B000000001", true, "100"),
		rec("two sources", "B000000002", true, "200"),
		rec("single source low volume", "B000000003", true, "50"),
	}

	groups := Aggregate(records)

	assert.Equal(t, "two sources", groups[0].Representative.Text)
	assert.Equal(t, "single source high volume", groups[1].Representative.Text)
	assert.Equal(t, "single source low volume", groups[2].Representative.Text)
}

func TestAggregateTieBreaksAlphabetically(t *testing.T) {
	records := []*Record{
		rec("Zebra print", "B000000001", true, ""),
		rec("apple slicer", "B000000002", true, ""),
	}

	groups := Aggregate(records)

	assert.Equal(t, "apple slicer", groups[0].Representative.Text)
	assert.Equal(t, "Zebra print", groups[1].Representative.Text)
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestFilterMatchesSubstringCaseInsensitively(t *testing.T) {
	groups := Aggregate([]*Record{
		rec("Wireless Earbuds", "B000000001", true, ""),
		rec("charging case", "B000000001", true, ""),
	})

	filtered := Filter(groups, "WIRE")
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Wireless Earbuds", filtered[0].Representative.Text)

	assert.Len(t, Filter(groups, ""), 2)
	assert.Empty(t, Filter(groups, "bluetooth"))
}

func TestParseVolume(t *testing.T) {
	assert.Equal(t, 1200, parseVolume("1,200"))
	assert.Equal(t, 300, parseVolume(" 300 "))
	assert.Equal(t, 0, parseVolume("high"))
	assert.Equal(t, 0, parseVolume(""))
	assert.Equal(t, 0, parseVolume("-5"))
}
