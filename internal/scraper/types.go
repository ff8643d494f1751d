package scraper

import "fmt"

// Platform identifies a supported storefront platform.
// The platform is resolved once at account-load time; nothing downstream
// inspects URLs to decide behavior.
type Platform string

const (
	MercadoLibre Platform = "MercadoLibre"
	Amazon       Platform = "Amazon"
	Shein        Platform = "Shein"
)

// ParsePlatform converts a configuration string into a Platform
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case MercadoLibre, Amazon, Shein:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Origin returns the absolute-URL origin used to resolve relative links
func (p Platform) Origin() string {
	switch p {
	case MercadoLibre:
		return "https://www.mercadolibre.com.mx"
	case Amazon:
		return "https://www.amazon.com.mx"
	case Shein:
		return "https://www.shein.com.mx"
	}
	return ""
}

func (p Platform) String() string {
	return string(p)
}

// RawItem is one scraped product listing before normalization: a bag of
// text fragments exactly as they appear on the page. Fields a platform
// does not render are left empty; interpretation belongs to the normalizer.
type RawItem struct {
	Title             string
	CurrentPriceText  string
	OriginalPriceText string
	DiscountText      string
	Link              string
}

// Scraper is the contract for all storefront scrapers
type Scraper interface {
	// Fetch retrieves the raw product items from the storefront listing
	Fetch() ([]RawItem, error)

	// Platform returns the platform this scraper targets
	Platform() Platform

	// Name returns the scraper's name for logging and identification
	Name() string
}

// Selectors contains CSS selectors for the product fields of one platform
type Selectors struct {
	ItemList      string
	Title         string
	Link          string
	CurrentPrice  string
	OriginalPrice string
	Discount      string
}

// Config contains the configuration for one scraper instance
type Config struct {
	URL       string
	CacheKey  string
	BlockTime int
	Platform  Platform
	Selectors Selectors
}
