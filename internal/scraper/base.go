package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"godlval/discountwatcher/helpers"
	"godlval/discountwatcher/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// Base provides common functionality for all storefront scrapers
type Base struct {
	url       string
	cacheKey  string
	cacheSvc  cache.CacheService
	blockTime time.Duration
	platform  Platform
	selectors Selectors
}

// newBase creates a scraper from its configuration
func newBase(cfg Config, cacheSvc cache.CacheService) *Base {
	return &Base{
		url:       cfg.URL,
		cacheKey:  cfg.CacheKey,
		cacheSvc:  cacheSvc,
		blockTime: time.Duration(cfg.BlockTime) * time.Second,
		platform:  cfg.Platform,
		selectors: cfg.Selectors,
	}
}

// Platform returns the platform this scraper targets
func (b *Base) Platform() Platform {
	return b.platform
}

// Name returns the scraper's name for logging
func (b *Base) Name() string {
	return string(b.platform) + "Scraper"
}

// Fetch retrieves the listing page and extracts the raw product items.
// Any failure surfaces as an error; the caller decides to skip the account.
func (b *Base) Fetch() ([]RawItem, error) {
	body, err := b.fetchWithCache()
	if err != nil {
		return nil, err
	}

	doc, err := b.document(body)
	if err != nil {
		return nil, err
	}

	var items []RawItem
	doc.Find(b.selectors.ItemList).Each(func(i int, s *goquery.Selection) {
		items = append(items, b.extractItem(s))
	})

	return items, nil
}

// fetchWithCache fetches the listing URL with rate-limit backoff.
// A storefront that answered 429 is not contacted again until the
// block key expires.
func (b *Base) fetchWithCache() (io.Reader, error) {
	if b.cacheSvc != nil && b.cacheKey != "" {
		_, err := b.cacheSvc.Get(b.cacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds after rate limiting", b.cacheKey, int(b.blockTime/time.Second))
		}
	}

	body, err := helpers.FetchWithRandomHeaders(b.url)
	if err != nil {
		if b.cacheSvc != nil && b.cacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			b.cacheSvc.Set(b.cacheKey, []byte(fmt.Sprintf("%d", int(b.blockTime/time.Second))), b.blockTime)
		}
		return nil, err
	}

	return body, nil
}

// document creates a goquery document from a reader
func (b *Base) document(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}
	return doc, nil
}

// extractItem pulls the configured text fragments out of one listing card
func (b *Base) extractItem(s *goquery.Selection) RawItem {
	item := RawItem{
		Title:            text(s, b.selectors.Title),
		CurrentPriceText: text(s, b.selectors.CurrentPrice),
		DiscountText:     text(s, b.selectors.Discount),
	}

	if b.selectors.OriginalPrice != "" {
		item.OriginalPriceText = text(s, b.selectors.OriginalPrice)
	}

	if b.selectors.Link != "" {
		if href, ok := s.Find(b.selectors.Link).First().Attr("href"); ok {
			item.Link = strings.TrimSpace(href)
		}
	}

	return item
}

// text returns the trimmed text of the first match for selector, or ""
func text(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}
