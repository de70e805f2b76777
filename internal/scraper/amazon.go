// internal/scraper/amazon.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/config"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

// ErrServiceClosed indicates the scraper service has been closed.
var ErrServiceClosed = errors.New("scraper service closed")

// Service fetches Amazon product detail pages and extracts the fields the
// wizard needs. Requests are paced by a shared ticker and rotate through a
// pool of realistic user agents.
type Service struct {
	client     *http.Client
	host       string
	ticker     *time.Ticker
	closed     chan struct{}
	closeOnce  sync.Once
	userAgents []string
	log        *logrus.Entry
}

func NewService(cfg config.ScraperConfig) *Service {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = 20
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	host := cfg.Host
	if host == "" {
		host = "www.amazon.com"
	}

	return &Service{
		client: &http.Client{Timeout: timeout},
		host:   host,
		ticker: time.NewTicker(time.Minute / time.Duration(requestsPerMinute)),
		closed: make(chan struct{}),
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		},
		log: logrus.WithField("component", "scraper"),
	}
}

// Close stops the pacing ticker and unblocks pending waiters.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.ticker.Stop()
		close(s.closed)
	})
}

// FetchProductData retrieves product data for one ASIN. Implements
// wizard.ProductDataProvider.
func (s *Service) FetchProductData(ctx context.Context, asin string) (*wizard.ProductData, error) {
	asin = strings.TrimSpace(asin)
	if asin == "" {
		return nil, errors.New("asin is required")
	}

	endpoint := fmt.Sprintf("https://%s/dp/%s", s.host, url.PathEscape(asin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgents[int(time.Now().UnixNano())%len(s.userAgents)])
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, ErrServiceClosed
	case <-s.ticker.C:
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, endpoint)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product page: %w", err)
	}

	product := ParseProductPage(doc)
	if product.Title == "" {
		return nil, fmt.Errorf("no product data found for %s", asin)
	}

	s.log.WithFields(logrus.Fields{
		"asin":    asin,
		"bullets": len(product.BulletPoints),
	}).Debug("Product page fetched")

	return product, nil
}

// ParseProductPage extracts listing fields from an Amazon product detail
// document. Amazon serves several page layouts; each field tries the common
// selectors in order.
func ParseProductPage(doc *goquery.Document) *wizard.ProductData {
	title := textOrFallback(doc.Find("#productTitle"), "")

	description := firstNonEmpty(
		textOrFallback(doc.Find("#productDescription p"), ""),
		textOrFallback(doc.Find("#productDescription"), ""),
		textOrFallback(doc.Find("#bookDescription_feature_div .a-expander-content"), ""),
	)

	var bullets []string
	doc.Find("#feature-bullets ul li span.a-list-item").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" && !strings.HasPrefix(text, "Make sure this fits") {
			bullets = append(bullets, text)
		}
	})
	if len(bullets) == 0 {
		doc.Find("div#productFactsDesktop_feature_div ul li span.a-list-item").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				bullets = append(bullets, text)
			}
		})
	}

	brand := textOrFallback(doc.Find("#bylineInfo"), "")
	brand = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(brand, "Visit the"), "Brand:"))

	price := firstNonEmpty(
		textOrFallback(doc.Find("span#priceblock_ourprice"), ""),
		textOrFallback(doc.Find("span#priceblock_dealprice"), ""),
		textOrFallback(doc.Find("span.a-price span.a-offscreen"), ""),
	)

	var images []string
	if src := doc.Find("img#landingImage").AttrOr("src", ""); src != "" {
		images = append(images, src)
	}
	doc.Find("#altImages img").Each(func(_ int, sel *goquery.Selection) {
		if src := sel.AttrOr("src", ""); src != "" && !strings.Contains(src, "sprite") {
			images = append(images, src)
		}
	})

	return &wizard.ProductData{
		Title:        title,
		Description:  description,
		BulletPoints: bullets,
		Brand:        brand,
		Price:        price,
		Images:       images,
	}
}

func textOrFallback(sel *goquery.Selection, fallback string) string {
	value := strings.TrimSpace(sel.First().Text())
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
