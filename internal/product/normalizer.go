package product

import (
	"fmt"
	"regexp"
	"strings"

	"godlval/discountwatcher/internal/scraper"
	apperr "godlval/discountwatcher/pkg/errors"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Normalizer converts raw platform items into canonical products.
// All platform-specific price and discount arithmetic lives here; the
// scrapers only deliver text.
type Normalizer struct {
	platform scraper.Platform
	account  string
}

// NewNormalizer creates a normalizer for one account's platform
func NewNormalizer(platform scraper.Platform, account string) *Normalizer {
	return &Normalizer{
		platform: platform,
		account:  account,
	}
}

// NormalizeAll converts a batch of raw items into per-item results.
// Malformed items produce a Result carrying the reason; they never stop
// the rest of the batch.
func (n *Normalizer) NormalizeAll(items []scraper.RawItem) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		p, err := n.Normalize(item)
		results = append(results, Result{Product: p, Err: err})
	}
	return results
}

// Normalize converts one raw item into a canonical product
func (n *Normalizer) Normalize(item scraper.RawItem) (Product, error) {
	title := CleanTitle(item.Title)
	if title == "" {
		return Product{}, apperr.NewItemParse(n.account, "item has no title", nil)
	}

	current, err := ParsePrice(item.CurrentPriceText)
	if err != nil {
		return Product{}, apperr.NewItemParse(n.account, fmt.Sprintf("current price of %q: %v", title, err), err)
	}

	var original decimal.Decimal
	var discount int

	switch {
	case item.DiscountText != "":
		// Explicit discount badge plus sale price: derive the original
		// price from the discount.
		discount, err = ParseDiscount(item.DiscountText)
		if err != nil {
			return Product{}, apperr.NewItemParse(n.account, fmt.Sprintf("discount of %q: %v", title, err), err)
		}
		if discount >= 100 {
			return Product{}, apperr.NewItemParse(n.account, fmt.Sprintf("discount of %q is %d%%, out of range", title, discount), nil)
		}
		if discount == 0 {
			original = current
		} else {
			original = OriginalFromDiscount(current, discount)
		}

	case item.OriginalPriceText != "":
		// Struck-through original price plus sale price: derive the
		// discount from the two prices.
		original, err = ParsePrice(item.OriginalPriceText)
		if err != nil {
			return Product{}, apperr.NewItemParse(n.account, fmt.Sprintf("original price of %q: %v", title, err), err)
		}
		discount = DeriveDiscount(original, current)

	default:
		// Plain price, no discount signals.
		original = current
		discount = 0
	}

	return Product{
		Title:         title,
		OriginalPrice: original,
		CurrentPrice:  current,
		Discount:      discount,
		URL:           n.absoluteURL(item.Link),
	}, nil
}

// absoluteURL rewrites a relative product link against the platform origin
func (n *Normalizer) absoluteURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http") {
		return link
	}
	return n.platform.Origin() + link
}

// CleanTitle trims a raw title and drops variant/color suffixes that some
// platforms embed after a pipe character.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if before, _, found := strings.Cut(title, "|"); found {
		return strings.TrimSpace(before)
	}
	return title
}

// ParsePrice cleans currency symbols and separators out of a price text
// and parses the remainder as a decimal amount.
func ParsePrice(text string) (decimal.Decimal, error) {
	cleaned := nonNumeric.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric value in %q", text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price text %q: %w", text, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", text)
	}
	return d, nil
}

// ParseDiscount parses a discount badge like "-71%" into an integer percent
func ParseDiscount(text string) (int, error) {
	cleaned := nonNumeric.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q", text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid discount text %q: %w", text, err)
	}
	return int(d.Round(0).IntPart()), nil
}

// OriginalFromDiscount derives the pre-discount price from the sale price
// and the integer discount percent, rounded to 2 decimals.
// Callers must guarantee 0 < discount < 100.
func OriginalFromDiscount(current decimal.Decimal, discount int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 - discount)).Div(decimal.NewFromInt(100))
	return current.Div(factor).Round(2)
}

// DeriveDiscount derives the integer discount percent from the original and
// current prices, clamped to 0 when the current price is not below the
// original.
func DeriveDiscount(original, current decimal.Decimal) int {
	if !original.IsPositive() || current.GreaterThanOrEqual(original) {
		return 0
	}
	ratio := original.Sub(current).Div(original).Mul(decimal.NewFromInt(100))
	return int(ratio.Round(0).IntPart())
}
