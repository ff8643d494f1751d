package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"godlval/discountwatcher/config"
	"godlval/discountwatcher/helpers"
	"godlval/discountwatcher/internal/history"
	"godlval/discountwatcher/internal/scraper"
	"godlval/discountwatcher/internal/watcher"
	"godlval/discountwatcher/logger"
	"godlval/discountwatcher/services/cache"
	"godlval/discountwatcher/services/notifier"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	cfg.Phone = helpers.NormalizePhone(cfg.Phone)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("check_interval", cfg.CheckInterval).
		Ints("report_hours", cfg.ReportHours).
		Int("account_count", len(cfg.Accounts)).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create one scraper per configured account
	scrapers := make(map[string]scraper.Scraper, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		scrapers[account.Name] = scraper.New(account.Platform, account.URL, services.Cache)
	}

	log.Info().
		Int("scraper_count", len(scrapers)).
		Msg("Created scrapers")

	// Create and start the watcher
	w := watcher.NewWatcher(
		ctx,
		cfg,
		scrapers,
		history.NewStore(),
		services.Notifier,
	)

	// Start watcher in a goroutine
	watcherDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting discount watcher")
		watcherDone <- w.Start()
	}()

	// Wait for shutdown signal or watcher error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-watcherDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Watcher exited with error")
		} else {
			log.Info().Msg("Watcher exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache    cache.CacheService
	Notifier notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Notifier != nil {
		s.Notifier.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if cacheService == nil {
		return nil, fmt.Errorf("failed to create cache service")
	}
	services.Cache = cacheService

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize notifier
	switch cfg.NotifierDriver {
	case "gateway":
		services.Notifier = notifier.NewGatewayNotifier(cfg.GatewayURL, cfg.Phone)
		logger.Info("Using WhatsApp gateway at %s", cfg.GatewayURL)
	default:
		services.Notifier = notifier.NewRedisNotifier(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.Phone,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}
