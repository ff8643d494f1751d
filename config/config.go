package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"godlval/discountwatcher/internal/scraper"

	"github.com/go-playground/validator/v10"
)

// Account is one configured storefront to monitor. The list is loaded once
// at startup and never mutated.
type Account struct {
	Name     string           `validate:"required"`
	URL      string           `validate:"required,url"`
	Platform scraper.Platform `validate:"required"`
}

// Config represents the application configuration
type Config struct {
	// Accounts to monitor
	Accounts []Account `validate:"required,min=1,dive"`

	// Destination phone in international format
	Phone string `validate:"required,e164"`

	// Watch cadence. The interval must exceed the worst-case cycle
	// duration; cycles never overlap.
	CheckInterval time.Duration
	ReportHours   []int
	SettleDelay   time.Duration

	// Notifier configuration
	NotifierDriver       string `validate:"required,oneof=redis gateway"`
	GatewayURL           string
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (scrape rate limiting)
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	checkInterval, _ := strconv.Atoi(getEnv("CHECK_INTERVAL_SECONDS", "3600"))
	settleDelay, _ := strconv.Atoi(getEnv("SETTLE_DELAY_SECONDS", "5"))

	return Config{
		Accounts:             defaultAccounts(),
		Phone:                getEnv("PHONE_NUMBER", "+5215518361539"),
		CheckInterval:        time.Duration(checkInterval) * time.Second,
		ReportHours:          parseHours(getEnv("REPORT_HOURS", "9,18")),
		SettleDelay:          time.Duration(settleDelay) * time.Second,
		NotifierDriver:       getEnv("NOTIFIER_DRIVER", "redis"),
		GatewayURL:           getEnv("GATEWAY_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "notifications"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		Environment:          getEnv("WATCHER_ENVIRONMENT", "development"),
	}
}

// defaultAccounts returns the monitored storefronts, with per-account URL
// overrides from the environment
func defaultAccounts() []Account {
	return []Account{
		{
			Name:     "Marcas y Licencias Godlval",
			URL:      getEnv("MELI_GODLVAL_URL", "https://listado.mercadolibre.com.mx/_CustId_366058927"),
			Platform: scraper.MercadoLibre,
		},
		{
			Name:     "Grupo Maquilero",
			URL:      getEnv("MELI_MAQUILERO_URL", "https://listado.mercadolibre.com.mx/tienda/u4u/"),
			Platform: scraper.MercadoLibre,
		},
		{
			Name:     "U4U Amazon Store",
			URL:      getEnv("AMAZON_STORE_URL", "https://www.amazon.com.mx/s?k=u4u+uniformes"),
			Platform: scraper.Amazon,
		},
		{
			Name:     "U4U Shein Grupo Maquilero",
			URL:      getEnv("SHEIN_MAQUILERO_URL", "https://www.shein.com.mx/Brands/U4U-Uniforms-sc-0141887884.html"),
			Platform: scraper.Shein,
		},
		{
			Name:     "U4U Shein Pure and Simple",
			URL:      getEnv("SHEIN_PURESIMPLE_URL", "https://www.shein.com.mx/store/home?store_code=7833912084"),
			Platform: scraper.Shein,
		},
	}
}

// Validate checks the configuration for consistency
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]bool, len(c.Accounts))
	for _, account := range c.Accounts {
		if _, err := scraper.ParsePlatform(string(account.Platform)); err != nil {
			return fmt.Errorf("account %q: %w", account.Name, err)
		}
		if seen[account.Name] {
			return fmt.Errorf("duplicate account name %q", account.Name)
		}
		seen[account.Name] = true
	}

	if len(c.ReportHours) == 0 {
		return fmt.Errorf("no report hours configured")
	}
	for _, h := range c.ReportHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("report hour %d out of range", h)
		}
	}

	if c.NotifierDriver == "gateway" && c.GatewayURL == "" {
		return fmt.Errorf("gateway notifier requires GATEWAY_URL")
	}

	if c.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive")
	}

	return nil
}

// parseHours parses a comma-separated hour list like "9,18"
func parseHours(s string) []int {
	var hours []int
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		hours = append(hours, h)
	}
	return hours
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
