package watcher

import (
	"context"
	"slices"
	"strings"
	"time"

	"godlval/discountwatcher/config"
	"godlval/discountwatcher/internal/classifier"
	"godlval/discountwatcher/internal/history"
	"godlval/discountwatcher/internal/product"
	"godlval/discountwatcher/internal/report"
	"godlval/discountwatcher/internal/scraper"
	"godlval/discountwatcher/logger"
	"godlval/discountwatcher/services/notifier"

	"github.com/google/uuid"
)

// streamTrimmer is implemented by notifiers backed by capped streams
type streamTrimmer interface {
	TrimStreams() error
}

// Watcher drives the check cycles: scrape every account, normalize,
// classify against history, and decide what to dispatch. Accounts are
// processed strictly sequentially; there is never more than one cycle in
// flight.
type Watcher struct {
	ctx      context.Context
	cfg      config.Config
	scrapers map[string]scraper.Scraper
	history  *history.Store
	notifier notifier.Notifier
	log      *logger.Logger
}

// NewWatcher creates a new watcher. scrapers is keyed by account name.
func NewWatcher(
	ctx context.Context,
	cfg config.Config,
	scrapers map[string]scraper.Scraper,
	hist *history.Store,
	notif notifier.Notifier,
) *Watcher {
	return &Watcher{
		ctx:      ctx,
		cfg:      cfg,
		scrapers: scrapers,
		history:  hist,
		notifier: notif,
		log:      logger.ForWatcher(),
	}
}

// Start runs an immediate first cycle and then one cycle per interval
// until the context is cancelled.
func (w *Watcher) Start() error {
	w.RunCycle(time.Now())

	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
			w.RunCycle(time.Now())
		}
	}
}

// RunCycle performs one full check over all accounts and dispatches
// whatever the cycle produced. A cycle always runs to completion;
// per-account failures only skip that account.
func (w *Watcher) RunCycle(now time.Time) {
	start := time.Now()
	log := w.log.WithField("run_id", uuid.NewString())

	// Snapshot before this cycle's writes
	firstCycle := w.history.FirstCycle()

	var sections []string
	var urgentEvents []classifier.Event

	for _, account := range w.cfg.Accounts {
		section, urgent := w.checkAccount(account, firstCycle, log)
		if section != "" {
			sections = append(sections, section)
		}
		urgentEvents = append(urgentEvents, urgent...)
	}

	// Lost discounts go out immediately, whatever the hour
	if bundle := report.Urgent(urgentEvents, now); bundle != "" {
		log.Warn().
			Int("lost_count", len(urgentEvents)).
			Msg("Dispatching urgent alert")
		w.dispatch(notifier.KindUrgent, bundle, log)
	}

	// The full report only goes out on the first cycle or at report hours
	if firstCycle || slices.Contains(w.cfg.ReportHours, now.Hour()) {
		if bundle := report.Scheduled(sections, firstCycle, now); bundle != "" {
			log.Info().
				Bool("initial", firstCycle).
				Int("section_count", len(sections)).
				Msg("Dispatching report")
			w.dispatch(notifier.KindScheduled, bundle, log)
		} else {
			log.Info().Msg("No changes to report")
		}
	}

	if trimmer, ok := w.notifier.(streamTrimmer); ok {
		if err := trimmer.TrimStreams(); err != nil {
			log.Error().Err(err).Msg("Failed to trim notification streams")
		}
	}

	log.Info().
		Bool("first_cycle", firstCycle).
		Int("tracked_products", w.history.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Cycle finished")
}

// checkAccount scrapes and classifies one account. It returns the report
// section ("" when the account contributes nothing) and the account's
// urgent events. On scrape failure the account is skipped entirely and its
// history is left untouched.
func (w *Watcher) checkAccount(account config.Account, firstCycle bool, log *logger.Logger) (string, []classifier.Event) {
	alog := log.WithFields(logger.Fields{
		"account":  account.Name,
		"platform": account.Platform.String(),
	})

	s, ok := w.scrapers[account.Name]
	if !ok {
		alog.Error().Msg("No scraper configured for account")
		return "", nil
	}

	items, err := s.Fetch()
	if err != nil {
		alog.Warn().Err(err).Msg("Scrape failed, skipping account")
		return "", nil
	}
	if len(items) == 0 {
		alog.Warn().Msg("No products found, skipping account")
		return "", nil
	}

	normalizer := product.NewNormalizer(account.Platform, account.Name)
	results := normalizer.NormalizeAll(items)

	var events []classifier.Event
	var urgent []classifier.Event
	changes := false

	for _, r := range results {
		if !r.Ok() {
			alog.Error().Err(r.Err).Msg("Skipping malformed item")
			continue
		}

		prev, found := w.history.Previous(account.Name, r.Product.Title)
		event := classifier.Classify(r.Product, prev, found)

		if event.Urgent() {
			urgent = append(urgent, event)
		}
		if event.Changed() {
			changes = true
		}

		events = append(events, event)
		w.history.Set(account.Name, r.Product.Title, r.Product.Discount)
	}

	alog.Debug().
		Int("scraped", len(items)).
		Int("classified", len(events)).
		Bool("changes", changes).
		Msg("Account checked")

	if len(events) == 0 {
		return "", nil
	}
	if !changes && !firstCycle {
		return "", urgent
	}

	return report.Section(account.Name, account.Platform, events), urgent
}

// dispatch sends one bundle. Empty bodies are suppressed; delivery
// failures are logged and never retried within the cycle, and never roll
// back history.
func (w *Watcher) dispatch(kind, body string, log *logger.Logger) {
	if strings.TrimSpace(body) == "" {
		log.Warn().Str("kind", kind).Msg("Empty message body, suppressing send")
		return
	}

	if err := w.notifier.Notify(kind, body); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Failed to dispatch notification")
		return
	}

	// Give the transport a moment before the next send
	time.Sleep(w.cfg.SettleDelay)
}
