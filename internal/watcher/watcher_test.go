package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"godlval/discountwatcher/config"
	"godlval/discountwatcher/internal/history"
	"godlval/discountwatcher/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockScraper returns canned items or an error
type mockScraper struct {
	platform scraper.Platform
	items    []scraper.RawItem
	err      error
}

func (m *mockScraper) Fetch() ([]scraper.RawItem, error) {
	return m.items, m.err
}

func (m *mockScraper) Platform() scraper.Platform {
	return m.platform
}

func (m *mockScraper) Name() string {
	return string(m.platform) + "Scraper"
}

// mockNotifier records every dispatched message
type mockNotifier struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	kind string
	body string
}

func (m *mockNotifier) Notify(kind, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{kind: kind, body: body})
	return nil
}

func (m *mockNotifier) Close() error {
	return nil
}

func (m *mockNotifier) bodies(kind string) []string {
	var out []string
	for _, s := range m.sent {
		if s.kind == kind {
			out = append(out, s.body)
		}
	}
	return out
}

func testConfig(accounts ...config.Account) config.Config {
	return config.Config{
		Accounts:    accounts,
		Phone:       "+5215518361539",
		ReportHours: []int{9, 18},
		SettleDelay: 0,
	}
}

func sheinAccount(name string) config.Account {
	return config.Account{
		Name:     name,
		URL:      "https://www.shein.com.mx/store/test",
		Platform: scraper.Shein,
	}
}

func at(hour int) time.Time {
	return time.Date(2025, 3, 14, hour, 0, 0, 0, time.Local)
}

func sheinItem(title, price, discount string) scraper.RawItem {
	return scraper.RawItem{
		Title:            title,
		CurrentPriceText: price,
		DiscountText:     discount,
	}
}

func newTestWatcher(cfg config.Config, scrapers map[string]scraper.Scraper) (*Watcher, *history.Store, *mockNotifier) {
	hist := history.NewStore()
	notif := &mockNotifier{}
	w := NewWatcher(context.Background(), cfg, scrapers, hist, notif)
	return w, hist, notif
}

func TestFirstCycleSendsInitialReportAtAnyHour(t *testing.T) {
	cfg := testConfig(sheinAccount("Cuenta B"))
	w, hist, notif := newTestWatcher(cfg, map[string]scraper.Scraper{
		"Cuenta B": &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
			sheinItem("Pants", "$MXN850.00", "-15%"),
		}},
	})

	w.RunCycle(at(14)) // not a report hour

	bodies := notif.bodies("scheduled")
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "REPORTE INICIAL DE PRODUCTOS")
	assert.Contains(t, bodies[0], "🏪 CUENTA B (Shein)")
	assert.Contains(t, bodies[0], "✨ (Nuevo producto)")

	// History now holds the observation
	d, found := hist.Previous("Cuenta B", "Pants")
	assert.True(t, found)
	assert.Equal(t, 15, d)

	// Nothing was urgent
	assert.Empty(t, notif.bodies("urgent"))
}

func TestSecondIdenticalCycleIsQuiet(t *testing.T) {
	items := []scraper.RawItem{sheinItem("Pants", "$MXN850.00", "-15%")}
	cfg := testConfig(sheinAccount("Cuenta B"))
	w, _, notif := newTestWatcher(cfg, map[string]scraper.Scraper{
		"Cuenta B": &mockScraper{platform: scraper.Shein, items: items},
	})

	w.RunCycle(at(14))
	require.Len(t, notif.sent, 1) // initial report

	// Identical input again, non-trigger hour: everything Unchanged,
	// nothing dispatched.
	w.RunCycle(at(14))
	assert.Len(t, notif.sent, 1)
}

func TestLostDiscountDispatchesUrgentAtNonTriggerHour(t *testing.T) {
	sc := &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
		sheinItem("Shirt", "$MXN200.00", "-20%"),
	}}
	cfg := testConfig(sheinAccount("Cuenta A"))
	w, hist, notif := newTestWatcher(cfg, map[string]scraper.Scraper{"Cuenta A": sc})

	w.RunCycle(at(14))
	require.Len(t, notif.bodies("scheduled"), 1) // initial

	// The discount disappears
	sc.items = []scraper.RawItem{sheinItem("Shirt", "$MXN200.00", "")}
	w.RunCycle(at(14))

	urgent := notif.bodies("urgent")
	require.Len(t, urgent, 1)
	assert.Contains(t, urgent[0], "¡ALERTAS URGENTES!")
	assert.Contains(t, urgent[0], "📦 Producto: Shirt")

	// Non-trigger hour, not first cycle: no scheduled report despite the change
	assert.Len(t, notif.bodies("scheduled"), 1)

	d, _ := hist.Previous("Cuenta A", "Shirt")
	assert.Equal(t, 0, d)
}

func TestUnchangedAtReportHourSendsNothing(t *testing.T) {
	sc := &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
		sheinItem("Bata", "$MXN420.00", "-30%"),
	}}
	cfg := testConfig(sheinAccount("Cuenta C"))
	w, _, notif := newTestWatcher(cfg, map[string]scraper.Scraper{"Cuenta C": sc})

	w.RunCycle(at(14)) // initial
	require.Len(t, notif.sent, 1)

	// 30 -> 30 at hour 9: account contributes no section, nothing to send
	w.RunCycle(at(9))
	assert.Len(t, notif.sent, 1)
}

func TestChangedAtReportHourSendsScheduledReport(t *testing.T) {
	sc := &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
		sheinItem("Bata", "$MXN420.00", "-30%"),
	}}
	cfg := testConfig(sheinAccount("Cuenta C"))
	w, _, notif := newTestWatcher(cfg, map[string]scraper.Scraper{"Cuenta C": sc})

	w.RunCycle(at(14)) // initial

	sc.items = []scraper.RawItem{sheinItem("Bata", "$MXN294.00", "-45%")}
	w.RunCycle(at(18))

	bodies := notif.bodies("scheduled")
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[1], "REPORTE PROGRAMADO")
	assert.Contains(t, bodies[1], "📈 Descuento AUMENTADO: 30% → 45%")
}

func TestScrapeFailureSkipsAccountAndHistory(t *testing.T) {
	cfg := testConfig(sheinAccount("Caída"), sheinAccount("Sana"))
	w, hist, notif := newTestWatcher(cfg, map[string]scraper.Scraper{
		"Caída": &mockScraper{platform: scraper.Shein, err: errors.New("connection refused")},
		"Sana": &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
			sheinItem("Pants", "$MXN850.00", "-15%"),
		}},
	})

	w.RunCycle(at(14))

	// The healthy account still reports; the failed one left no trace
	bodies := notif.bodies("scheduled")
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "SANA")
	assert.NotContains(t, bodies[0], "CAÍDA")

	assert.Equal(t, 1, hist.Len())
	_, found := hist.Previous("Caída", "Pants")
	assert.False(t, found)
}

func TestEmptyScrapeSkipsAccount(t *testing.T) {
	cfg := testConfig(sheinAccount("Vacía"))
	w, hist, notif := newTestWatcher(cfg, map[string]scraper.Scraper{
		"Vacía": &mockScraper{platform: scraper.Shein},
	})

	w.RunCycle(at(9))

	assert.Empty(t, notif.sent)
	assert.Equal(t, 0, hist.Len())
	assert.True(t, hist.FirstCycle())
}

func TestMalformedItemsAreSkippedNotFatal(t *testing.T) {
	cfg := testConfig(sheinAccount("Cuenta"))
	w, hist, notif := newTestWatcher(cfg, map[string]scraper.Scraper{
		"Cuenta": &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
			sheinItem("Bueno", "$MXN100.00", "-20%"),
			{Title: "Sin precio"},
			sheinItem("", "$MXN50.00", ""),
		}},
	})

	w.RunCycle(at(14))

	require.Len(t, notif.bodies("scheduled"), 1)
	assert.Contains(t, notif.bodies("scheduled")[0], "Bueno")
	assert.Equal(t, 1, hist.Len())
}

func TestDispatchFailureDoesNotRollBackHistory(t *testing.T) {
	cfg := testConfig(sheinAccount("Cuenta"))
	hist := history.NewStore()
	notif := &mockNotifier{err: errors.New("gateway down")}
	w := NewWatcher(context.Background(), cfg, map[string]scraper.Scraper{
		"Cuenta": &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
			sheinItem("Pants", "$MXN850.00", "-15%"),
		}},
	}, hist, notif)

	w.RunCycle(at(9))

	// History reflects scrape-time truth even though delivery failed
	d, found := hist.Previous("Cuenta", "Pants")
	assert.True(t, found)
	assert.Equal(t, 15, d)
}

func TestLostProductRendersZeroFormatInReport(t *testing.T) {
	sc := &mockScraper{platform: scraper.Shein, items: []scraper.RawItem{
		sheinItem("Shirt", "$MXN200.00", "-20%"),
	}}
	cfg := testConfig(sheinAccount("Cuenta"))
	w, _, notif := newTestWatcher(cfg, map[string]scraper.Scraper{"Cuenta": sc})

	w.RunCycle(at(14)) // initial

	sc.items = []scraper.RawItem{sheinItem("Shirt", "$MXN200.00", "")}
	w.RunCycle(at(18)) // trigger hour: urgent AND scheduled fire independently

	urgent := notif.bodies("urgent")
	scheduled := notif.bodies("scheduled")
	require.Len(t, urgent, 1)
	require.Len(t, scheduled, 2)
	assert.Contains(t, scheduled[1], "⚠️ PRODUCTO SIN DESCUENTO")
	assert.Contains(t, scheduled[1], "Shirt")
}
