// internal/wizard/controller.go
package wizard

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/keywords"
)

var (
	ErrNoKeywordsSelected = errors.New("at least one keyword must be selected before generating")
	ErrInvalidStyle       = errors.New("unknown style preset")
	ErrInvalidTone        = errors.New("tone must be between 1 and 10")
	ErrDraftCompleted     = errors.New("draft has already been generated")
)

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// ValidASIN reports whether token is a 10-character alphanumeric product
// identifier, ignoring case. Single source of the ASIN shape rule; the
// request validator tag delegates here.
func ValidASIN(token string) bool {
	return asinPattern.MatchString(strings.ToUpper(token))
}

// Controller sequences the five-step listing creation flow over a single
// Draft. External fetch/extract chains run concurrently, one per ASIN; every
// draft mutation, including the keyword merges applied by completing chains,
// happens under the controller mutex.
type Controller struct {
	mu    sync.Mutex
	draft *Draft

	products  ProductDataProvider
	extractor KeywordExtractor
	generator ListingGenerator
	log       *logrus.Entry

	// base context for background chains; chains outlive the request that
	// started them
	ctx context.Context
	wg  sync.WaitGroup
}

// NewController starts a fresh wizard session.
func NewController(products ProductDataProvider, extractor KeywordExtractor, generator ListingGenerator) *Controller {
	return &Controller{
		draft:     NewDraft(),
		products:  products,
		extractor: extractor,
		generator: generator,
		log:       logrus.WithField("component", "wizard"),
		ctx:       context.Background(),
	}
}

// Wait blocks until all in-flight fetch/extract chains finish. Used by tests
// and by graceful shutdown; normal callers never need it.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Step returns the current wizard step.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Step
}

// GoToStep moves to step n. Moving backward to any visited step is free;
// moving forward is allowed only to the next unvisited step. Out-of-range or
// skipping requests are a no-op and return false.
func (c *Controller) GoToStep(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < StepAsins || n > StepReview {
		return false
	}
	if n > c.draft.Step+1 {
		return false
	}
	c.draft.Step = n
	return true
}

// Next advances one step, clamped at the review step.
func (c *Controller) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Step < StepReview {
		c.draft.Step++
	}
	return c.draft.Step
}

// Previous retreats one step, clamped at the first step.
func (c *Controller) Previous() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Step > StepAsins {
		c.draft.Step--
	}
	return c.draft.Step
}

// AddASINs parses free-text input (newline, comma or whitespace separated),
// normalizes each token to an uppercase ASIN, and starts the
// fetch-then-extract chain for every token not already present. Tokens that
// are not 10 alphanumeric characters are rejected before any external call
// and reported in invalid. Re-adding a present ASIN is a no-op: no duplicate
// entry, no second fetch.
func (c *Controller) AddASINs(input string) (added []string, invalid []string) {
	tokens := splitAsinInput(input)

	c.mu.Lock()
	for _, token := range tokens {
		if !ValidASIN(token) {
			invalid = append(invalid, token)
			continue
		}
		if c.draft.findAsin(token) != nil {
			continue
		}
		c.draft.Asins = append(c.draft.Asins, &AsinEntry{
			ASIN:        token,
			FetchStatus: FetchStatusLoading,
		})
		added = append(added, token)
	}
	c.mu.Unlock()

	for _, asin := range added {
		c.wg.Add(1)
		go c.runChain(asin)
	}
	return added, invalid
}

// RemoveASIN deletes the entry and cascades removal of its keywords. Any
// still-running chain for the ASIN is not cancelled; its completion is
// discarded when it finds the entry gone.
func (c *Controller) RemoveASIN(asin string) bool {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.removeAsin(asin)
}

// Asins returns a copy of the entries in submission order.
func (c *Controller) Asins() []AsinEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]AsinEntry, 0, len(c.draft.Asins))
	for _, e := range c.draft.Asins {
		out = append(out, *e)
	}
	return out
}

// AddKeyword records a manually entered keyword. Manual keywords carry no
// source ASIN and start selected.
func (c *Controller) AddKeyword(text string) *Keyword {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	kw := &Keyword{
		ID:       uuid.NewString(),
		Text:     text,
		Selected: true,
	}

	c.mu.Lock()
	c.draft.Keywords = append(c.draft.Keywords, kw)
	c.mu.Unlock()

	copied := *kw
	return &copied
}

// ToggleKeyword flips the selection flag of every record in the keyword's
// case-insensitive group, so the displayed group toggles as one unit.
func (c *Controller) ToggleKeyword(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kw := c.draft.findKeyword(id)
	if kw == nil {
		return false
	}
	target := !kw.Selected
	key := lowerText(kw.Text)
	for _, rec := range c.draft.Keywords {
		if lowerText(rec.Text) == key {
			rec.Selected = target
		}
	}
	return true
}

// RemoveKeyword removes every record in the keyword's case-insensitive
// group, so the displayed row disappears entirely.
func (c *Controller) RemoveKeyword(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kw := c.draft.findKeyword(id)
	if kw == nil {
		return false
	}
	key := lowerText(kw.Text)
	kept := c.draft.Keywords[:0]
	for _, rec := range c.draft.Keywords {
		if lowerText(rec.Text) != key {
			kept = append(kept, rec)
		}
	}
	c.draft.Keywords = kept
	return true
}

// AggregatedKeywords returns the display-ready keyword view, optionally
// filtered by a case-insensitive substring match.
func (c *Controller) AggregatedKeywords(filter string) []keywords.Group {
	c.mu.Lock()
	records := make([]*keywords.Record, 0, len(c.draft.Keywords))
	for _, kw := range c.draft.Keywords {
		copied := *kw
		records = append(records, &copied)
	}
	c.mu.Unlock()

	return keywords.Filter(keywords.Aggregate(records), filter)
}

// SetStyle sets the style preset.
func (c *Controller) SetStyle(style Style) error {
	if !ValidStyle(style) {
		return ErrInvalidStyle
	}
	c.mu.Lock()
	c.draft.Style = style
	c.mu.Unlock()
	return nil
}

// SetTone sets the tone level, 1..10.
func (c *Controller) SetTone(tone int) error {
	if tone < 1 || tone > 10 {
		return ErrInvalidTone
	}
	c.mu.Lock()
	c.draft.Tone = tone
	c.mu.Unlock()
	return nil
}

// SetKeywordDensity clamps and stores the requested keyword density (0..1).
func (c *Controller) SetKeywordDensity(density float64) {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	c.mu.Lock()
	c.draft.KeywordDensity = density
	c.mu.Unlock()
}

// SetProductNotes stores free-text product details included with generation.
func (c *Controller) SetProductNotes(notes string) {
	c.mu.Lock()
	c.draft.ProductNotes = strings.TrimSpace(notes)
	c.mu.Unlock()
}

// Generate invokes the generation collaborator with the current draft
// snapshot: selected keyword texts (deduplicated), style, tone, ASINs with
// their fetched product data, and any free-text notes. On success the content
// and listing id are stored, the draft is marked completed and the wizard
// moves to review. On failure the error is recorded on the draft and the
// step does not advance; the caller may retry.
func (c *Controller) Generate(ctx context.Context) (*GeneratedContent, string, error) {
	c.mu.Lock()
	if c.draft.Completed {
		c.mu.Unlock()
		return nil, "", ErrDraftCompleted
	}
	texts := c.draft.selectedKeywordTexts()
	if len(texts) == 0 {
		c.mu.Unlock()
		return nil, "", ErrNoKeywordsSelected
	}

	req := GenerateRequest{
		Keywords:       texts,
		Style:          c.draft.Style,
		Tone:           c.draft.Tone,
		KeywordDensity: c.draft.KeywordDensity,
		ProductNotes:   c.draft.ProductNotes,
	}
	for _, e := range c.draft.Asins {
		req.ASINs = append(req.ASINs, e.ASIN)
		if e.Product != nil {
			req.Products = append(req.Products, e.Product)
		}
	}
	c.mu.Unlock()

	result, err := c.generator.GenerateListing(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.draft.GenerationError = err.Error()
		c.log.WithError(err).Warn("Listing generation failed")
		return nil, "", err
	}

	c.draft.GenerationError = ""
	c.draft.Generated = &GeneratedContent{
		Title:        result.Title,
		BulletPoints: result.BulletPoints,
		Description:  result.Description,
	}
	c.draft.ListingID = result.ListingID
	c.draft.Completed = true
	c.draft.Step = StepReview

	content := *c.draft.Generated
	return &content, result.ListingID, nil
}

// Generated returns the generated content, or nil before a successful
// generation.
func (c *Controller) Generated() *GeneratedContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Generated == nil {
		return nil
	}
	content := *c.draft.Generated
	return &content
}

// GenerationError returns the last generation failure message, if any.
func (c *Controller) GenerationError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.GenerationError
}

// runChain executes the fetch-then-extract sequence for one ASIN. Fetch
// failure marks the entry and stops; extraction failure after a successful
// fetch is recorded separately without rolling back the entry. Completions
// for an ASIN removed mid-flight are discarded.
func (c *Controller) runChain(asin string) {
	defer c.wg.Done()

	product, err := c.products.FetchProductData(c.ctx, asin)
	if err != nil {
		c.finishFetch(asin, nil, err)
		return
	}
	if !c.finishFetch(asin, product, nil) {
		return
	}

	extracted, err := c.extractor.ExtractKeywords(c.ctx, product.Title, product.Description, product.BulletPoints)
	if err != nil {
		c.recordExtractionError(asin, err)
		return
	}
	c.mergeKeywords(asin, extracted)
}

// finishFetch applies the fetch outcome; returns false when the ASIN was
// removed while the fetch was in flight.
func (c *Controller) finishFetch(asin string, product *ProductData, fetchErr error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.draft.findAsin(asin)
	if entry == nil {
		return false
	}
	if fetchErr != nil {
		entry.FetchStatus = FetchStatusError
		entry.Error = fetchErr.Error()
		c.log.WithField("asin", asin).WithError(fetchErr).Warn("Product fetch failed")
		return true
	}
	entry.FetchStatus = FetchStatusSuccess
	entry.Error = ""
	entry.Product = product
	return true
}

func (c *Controller) recordExtractionError(asin string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.draft.findAsin(asin)
	if entry == nil {
		return
	}
	entry.ExtractionError = err.Error()
	c.log.WithField("asin", asin).WithError(err).Warn("Keyword extraction failed")
}

// mergeKeywords appends one record per extracted phrase as a single atomic
// read-modify-write. All records are kept, including case-insensitive
// duplicates from other sources; dedup is left to the aggregator so no
// per-source metadata is lost.
func (c *Controller) mergeKeywords(asin string, extracted []ExtractedKeyword) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.findAsin(asin) == nil {
		return
	}
	for _, ek := range extracted {
		text := strings.TrimSpace(ek.Keyword)
		if text == "" {
			continue
		}
		c.draft.Keywords = append(c.draft.Keywords, &Keyword{
			ID:           uuid.NewString(),
			Text:         text,
			SourceASIN:   asin,
			SearchVolume: ek.SearchVolume,
			Competition:  ek.Competition,
			Relevance:    ek.Relevance,
			Selected:     true,
		})
	}
}

func splitAsinInput(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToUpper(strings.TrimSpace(f))
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

func lowerText(s string) string {
	return strings.ToLower(s)
}
