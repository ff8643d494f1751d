package scraper

import (
	"godlval/discountwatcher/services/cache"
)

// rateLimitBlockSeconds is how long a storefront is left alone after a 429
const rateLimitBlockSeconds = 500

// New creates the scraper for a platform, pointing at the account's
// listing URL. Selector sets mirror the current layout of each storefront;
// they are expected to drift and are the only thing that needs touching
// when they do.
func New(platform Platform, url string, cacheSvc cache.CacheService) Scraper {
	cfg := Config{
		URL:       url,
		CacheKey:  string(platform) + "_rate_limited",
		BlockTime: rateLimitBlockSeconds,
		Platform:  platform,
	}

	switch platform {
	case MercadoLibre:
		cfg.Selectors = Selectors{
			ItemList:      "li.ui-search-layout__item, div.ui-search-result",
			Title:         "h2.ui-search-item__title, h3.ui-search-item__title",
			Link:          "a.ui-search-item__group__element, a.ui-search-link",
			CurrentPrice:  "span.price-tag-amount span.price-tag-fraction, span.price-tag-fraction",
			OriginalPrice: "span.ui-search-price__second-line span.price-tag-fraction",
		}
	case Amazon:
		cfg.Selectors = Selectors{
			ItemList:      "div[data-component-type='s-search-result']",
			Title:         "h2.a-size-mini",
			Link:          "a.a-link-normal",
			CurrentPrice:  "span.a-price span.a-offscreen",
			OriginalPrice: "span.a-text-price span.a-offscreen",
		}
	case Shein:
		cfg.Selectors = Selectors{
			ItemList:     "section.product-card",
			Title:        "a.goods-title-link",
			Link:         "a.goods-title-link",
			CurrentPrice: "span.normal-price-ctn__sale-price",
			Discount:     "span.discount-text",
		}
	}

	return newBase(cfg, cacheSvc)
}
