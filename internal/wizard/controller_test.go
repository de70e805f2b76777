// internal/wizard/controller_test.go
package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts struct {
	mu      sync.Mutex
	fetches []string
	errs    map[string]error
	gate    chan struct{}
}

func (s *stubProducts) FetchProductData(ctx context.Context, asin string) (*ProductData, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.fetches = append(s.fetches, asin)
	err := s.errs[asin]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &ProductData{
		Title:        "Product " + asin,
		Description:  "Description for " + asin,
		BulletPoints: []string{"Feature one", "Feature two"},
	}, nil
}

func (s *stubProducts) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fetches)
}

type stubExtractor struct {
	mu       sync.Mutex
	calls    int
	err      error
	keywords []ExtractedKeyword
}

func (s *stubExtractor) ExtractKeywords(ctx context.Context, title, description string, bulletPoints []string) ([]ExtractedKeyword, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.keywords, nil
}

func (s *stubExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubGenerator struct {
	mu      sync.Mutex
	lastReq GenerateRequest
	err     error
	result  *GeneratedListing
}

func (s *stubGenerator) GenerateListing(ctx context.Context, req GenerateRequest) (*GeneratedListing, error) {
	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &GeneratedListing{
		Title:        "Generated Title",
		BulletPoints: []string{"Bullet"},
		Description:  "Generated description",
		ListingID:    "11111111-1111-1111-1111-111111111111",
	}, nil
}

func newTestController(products *stubProducts, extractor *stubExtractor, generator *stubGenerator) *Controller {
	if products == nil {
		products = &stubProducts{}
	}
	if extractor == nil {
		extractor = &stubExtractor{}
	}
	if generator == nil {
		generator = &stubGenerator{}
	}
	return NewController(products, extractor, generator)
}

func TestAddASINsParsesAndValidatesInput(t *testing.T) {
	c := newTestController(nil, nil, nil)

	added, invalid := c.AddASINs("b08n5wrwnw, B07FZ8S74Z\nshort  B0*INVALID")
	c.Wait()

	assert.Equal(t, []string{"B08N5WRWNW", "B07FZ8S74Z"}, added)
	assert.Equal(t, []string{"SHORT", "B0*INVALID"}, invalid)

	entries := c.Asins()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, FetchStatusSuccess, e.FetchStatus)
		require.NotNil(t, e.Product)
	}
}

func TestAddASINsIgnoresDuplicates(t *testing.T) {
	products := &stubProducts{}
	c := newTestController(products, nil, nil)

	added, _ := c.AddASINs("B08N5WRWNW")
	c.Wait()
	require.Equal(t, []string{"B08N5WRWNW"}, added)

	added, invalid := c.AddASINs("B08N5WRWNW")
	c.Wait()

	assert.Empty(t, added)
	assert.Empty(t, invalid)
	assert.Len(t, c.Asins(), 1)
	assert.Equal(t, 1, products.fetchCount())
}

func TestFetchFailureRecordedOnEntry(t *testing.T) {
	products := &stubProducts{errs: map[string]error{"B08N5WRWNW": errors.New("page unavailable")}}
	extractor := &stubExtractor{}
	c := newTestController(products, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	c.Wait()

	entries := c.Asins()
	require.Len(t, entries, 1)
	assert.Equal(t, FetchStatusError, entries[0].FetchStatus)
	assert.Equal(t, "page unavailable", entries[0].Error)
	assert.Nil(t, entries[0].Product)
	assert.Equal(t, 0, extractor.callCount())
}

func TestExtractionFailureKeepsFetchedProduct(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("model unavailable")}
	c := newTestController(nil, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	c.Wait()

	entries := c.Asins()
	require.Len(t, entries, 1)
	assert.Equal(t, FetchStatusSuccess, entries[0].FetchStatus)
	require.NotNil(t, entries[0].Product)
	assert.Equal(t, "model unavailable", entries[0].ExtractionError)
	assert.Empty(t, c.AggregatedKeywords(""))
}

func TestChainMergesExtractedKeywords(t *testing.T) {
	extractor := &stubExtractor{keywords: []ExtractedKeyword{
		{Keyword: "wireless earbuds", SearchVolume: "1200"},
		{Keyword: "noise cancelling"},
		{Keyword: "  "},
	}}
	c := newTestController(nil, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	c.Wait()

	groups := c.AggregatedKeywords("")
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.True(t, g.Selected)
		assert.Equal(t, []string{"B08N5WRWNW"}, g.Sources)
	}
}

func TestRemoveASINCascadesItsKeywords(t *testing.T) {
	extractor := &stubExtractor{keywords: []ExtractedKeyword{{Keyword: "wireless earbuds"}}}
	c := newTestController(nil, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	c.Wait()
	manual := c.AddKeyword("hand picked")
	require.NotNil(t, manual)

	require.True(t, c.RemoveASIN("b08n5wrwnw"))

	assert.Empty(t, c.Asins())
	groups := c.AggregatedKeywords("")
	require.Len(t, groups, 1)
	assert.Equal(t, "hand picked", groups[0].Representative.Text)
}

func TestChainCompletionDiscardedAfterRemoval(t *testing.T) {
	products := &stubProducts{gate: make(chan struct{})}
	extractor := &stubExtractor{keywords: []ExtractedKeyword{{Keyword: "stale keyword"}}}
	c := newTestController(products, extractor, nil)

	c.AddASINs("B08N5WRWNW")
	require.True(t, c.RemoveASIN("B08N5WRWNW"))

	close(products.gate)
	c.Wait()

	assert.Empty(t, c.Asins())
	assert.Empty(t, c.AggregatedKeywords(""))
	assert.Equal(t, 0, extractor.callCount())
}

func TestToggleKeywordFlipsWholeGroup(t *testing.T) {
	c := newTestController(nil, nil, nil)

	first := c.AddKeyword("Bamboo Board")
	second := c.AddKeyword("bamboo board")
	require.NotNil(t, first)
	require.NotNil(t, second)

	require.True(t, c.ToggleKeyword(first.ID))

	groups := c.AggregatedKeywords("")
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Selected)

	require.True(t, c.ToggleKeyword(second.ID))
	groups = c.AggregatedKeywords("")
	assert.True(t, groups[0].Selected)

	assert.False(t, c.ToggleKeyword("missing-id"))
}

func TestRemoveKeywordRemovesWholeGroup(t *testing.T) {
	c := newTestController(nil, nil, nil)

	first := c.AddKeyword("Bamboo Board")
	c.AddKeyword("bamboo board")
	keep := c.AddKeyword("cutting board")

	require.True(t, c.RemoveKeyword(first.ID))

	groups := c.AggregatedKeywords("")
	require.Len(t, groups, 1)
	assert.Equal(t, keep.Text, groups[0].Representative.Text)
}

func TestAddKeywordRejectsEmptyText(t *testing.T) {
	c := newTestController(nil, nil, nil)
	assert.Nil(t, c.AddKeyword("   "))
}

func TestStepNavigation(t *testing.T) {
	c := newTestController(nil, nil, nil)

	assert.Equal(t, StepAsins, c.Step())
	assert.False(t, c.GoToStep(StepStyle), "skipping ahead is rejected")
	assert.True(t, c.GoToStep(StepKeywords))
	assert.Equal(t, StepKeywords, c.Step())

	assert.True(t, c.GoToStep(StepAsins), "moving back is always allowed")
	assert.False(t, c.GoToStep(-1))
	assert.False(t, c.GoToStep(StepReview+1))

	assert.Equal(t, StepKeywords, c.Next())
	assert.Equal(t, StepAsins, c.Previous())
	assert.Equal(t, StepAsins, c.Previous(), "clamped at first step")
}

func TestStyleSettings(t *testing.T) {
	c := newTestController(nil, nil, nil)

	assert.NoError(t, c.SetStyle(StyleLuxury))
	assert.ErrorIs(t, c.SetStyle(Style("sarcastic")), ErrInvalidStyle)

	assert.NoError(t, c.SetTone(10))
	assert.ErrorIs(t, c.SetTone(0), ErrInvalidTone)
	assert.ErrorIs(t, c.SetTone(11), ErrInvalidTone)

	c.SetKeywordDensity(2.5)
	snap := c.Snapshot()
	assert.Equal(t, 1.0, snap.KeywordDensity)
	c.SetKeywordDensity(-1)
	assert.Equal(t, 0.0, c.Snapshot().KeywordDensity)
}

func TestGenerateRequiresSelectedKeywords(t *testing.T) {
	c := newTestController(nil, nil, nil)

	_, _, err := c.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNoKeywordsSelected)

	kw := c.AddKeyword("wireless earbuds")
	require.True(t, c.ToggleKeyword(kw.ID))

	_, _, err = c.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNoKeywordsSelected)
}

func TestGenerateSuccessCompletesDraft(t *testing.T) {
	extractor := &stubExtractor{keywords: []ExtractedKeyword{
		{Keyword: "Wireless Earbuds"},
		{Keyword: "wireless earbuds"},
	}}
	generator := &stubGenerator{}
	c := newTestController(nil, extractor, generator)

	c.AddASINs("B08N5WRWNW")
	c.Wait()
	c.SetProductNotes("  gift packaging  ")

	content, listingID, err := c.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, content)
	assert.Equal(t, "Generated Title", content.Title)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", listingID)

	// Duplicate keyword texts collapse in the request.
	assert.Equal(t, []string{"Wireless Earbuds"}, generator.lastReq.Keywords)
	assert.Equal(t, []string{"B08N5WRWNW"}, generator.lastReq.ASINs)
	assert.Equal(t, "gift packaging", generator.lastReq.ProductNotes)

	assert.Equal(t, StepReview, c.Step())
	require.NotNil(t, c.Generated())
	assert.Empty(t, c.GenerationError())

	_, _, err = c.Generate(context.Background())
	assert.ErrorIs(t, err, ErrDraftCompleted)
}

func TestAddASINThroughGenerateSendsDeselectedSubset(t *testing.T) {
	extractor := &stubExtractor{keywords: []ExtractedKeyword{
		{Keyword: "wireless earbuds", SearchVolume: "5,000"},
		{Keyword: "bluetooth headphones", SearchVolume: "3,200"},
		{Keyword: "noise cancelling"},
	}}
	generator := &stubGenerator{}
	c := newTestController(nil, extractor, generator)

	added, invalid := c.AddASINs("B01DFKC2SO")
	c.Wait()
	require.Equal(t, []string{"B01DFKC2SO"}, added)
	require.Empty(t, invalid)

	groups := c.AggregatedKeywords("")
	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.True(t, g.Selected, "extracted keywords start selected")
	}

	require.True(t, c.ToggleKeyword(groups[0].Representative.ID))

	_, _, err := c.Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, generator.lastReq.Keywords, 2)
	assert.NotContains(t, generator.lastReq.Keywords, groups[0].Representative.Text)
}

func TestGenerateFailureAllowsRetry(t *testing.T) {
	generator := &stubGenerator{err: errors.New("model timeout")}
	c := newTestController(nil, nil, generator)
	c.AddKeyword("wireless earbuds")

	_, _, err := c.Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, "model timeout", c.GenerationError())
	assert.Nil(t, c.Generated())
	assert.Equal(t, StepAsins, c.Step(), "step does not advance on failure")

	generator.err = nil
	content, _, err := c.Generate(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, content)
	assert.Empty(t, c.GenerationError())
}
