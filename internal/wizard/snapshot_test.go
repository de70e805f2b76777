// internal/wizard/snapshot_test.go
package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	extractor := &stubExtractor{keywords: []ExtractedKeyword{
		{Keyword: "wireless earbuds", SearchVolume: "1200", Competition: "low", Relevance: "high"},
	}}
	c := newTestController(nil, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	c.Wait()
	c.AddKeyword("hand picked")
	require.NoError(t, c.SetStyle(StyleCasual))
	require.NoError(t, c.SetTone(8))
	c.SetKeywordDensity(0.7)
	c.SetProductNotes("ships in eco packaging")
	require.True(t, c.GoToStep(StepKeywords))

	data, err := MarshalSnapshot(c.Snapshot())
	require.NoError(t, err)

	snap, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	restored := newTestController(nil, nil, nil)
	restored.Restore(snap)

	got := restored.Snapshot()
	assert.Equal(t, StyleCasual, got.Style)
	assert.Equal(t, 8, got.Tone)
	assert.Equal(t, 0.7, got.KeywordDensity)
	assert.Equal(t, "ships in eco packaging", got.ProductNotes)
	assert.Equal(t, StepKeywords, got.Step)
	assert.False(t, got.Completed)

	require.Len(t, got.Asins, 1)
	assert.Equal(t, "B08N5WRWNW", got.Asins[0].ASIN)
	assert.Equal(t, FetchStatusSuccess, got.Asins[0].FetchStatus)
	require.NotNil(t, got.Asins[0].Product)

	require.Len(t, got.Keywords, 2)
	assert.Equal(t, "wireless earbuds", got.Keywords[0].Text)
	assert.Equal(t, "B08N5WRWNW", got.Keywords[0].SourceASIN)
	assert.Equal(t, "1200", got.Keywords[0].SearchVolume)
	assert.Equal(t, "hand picked", got.Keywords[1].Text)
	assert.Empty(t, got.Keywords[1].SourceASIN)
}

func TestRestoreRehydratesLoadingAsIdle(t *testing.T) {
	snap := &Snapshot{
		Asins: []*AsinEntry{
			{ASIN: "B08N5WRWNW", FetchStatus: FetchStatusLoading},
			{ASIN: "B07FZ8S74Z", FetchStatus: FetchStatusError, Error: "page unavailable"},
		},
		Style: StyleProfessional,
		Tone:  5,
	}

	c := newTestController(nil, nil, nil)
	c.Restore(snap)

	entries := c.Asins()
	require.Len(t, entries, 2)
	assert.Equal(t, FetchStatusIdle, entries[0].FetchStatus)
	assert.Equal(t, FetchStatusError, entries[1].FetchStatus)
	assert.Equal(t, "page unavailable", entries[1].Error)
}

func TestRestoreFallsBackOnOutOfRangeValues(t *testing.T) {
	snap := &Snapshot{
		Style:          Style("sarcastic"),
		Tone:           42,
		KeywordDensity: 7,
		Step:           99,
	}

	c := newTestController(nil, nil, nil)
	c.Restore(snap)

	got := c.Snapshot()
	assert.Equal(t, StyleProfessional, got.Style)
	assert.Equal(t, 5, got.Tone)
	assert.Equal(t, 0.5, got.KeywordDensity)
	assert.Equal(t, StepAsins, got.Step)
}

func TestRestoredGeneratedContentSurvives(t *testing.T) {
	snap := &Snapshot{
		Style: StyleTechnical,
		Tone:  3,
		Generated: &GeneratedContent{
			Title:        "Restored Title",
			BulletPoints: []string{"Point"},
			Description:  "Restored description",
		},
		ListingID: "22222222-2222-2222-2222-222222222222",
		Step:      StepReview,
		Completed: true,
	}

	c := newTestController(nil, nil, nil)
	c.Restore(snap)

	content := c.Generated()
	require.NotNil(t, content)
	assert.Equal(t, "Restored Title", content.Title)

	got := c.Snapshot()
	assert.True(t, got.Completed)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", got.ListingID)
	assert.Equal(t, StepReview, got.Step)
}
