// Package report composes the operator-facing WhatsApp messages. The
// templates are load-bearing: the operator's tooling and habits expect
// these exact Spanish blocks, so changes here are format changes for a
// person, not refactors.
package report

import (
	"fmt"
	"strings"
	"time"

	"godlval/discountwatcher/internal/classifier"
	"godlval/discountwatcher/internal/scraper"
)

// TimeFormat is the timestamp trailer format on every bundle
const TimeFormat = "02/01/2006 15:04:05"

var (
	sectionSeparator = strings.Repeat("=", 30)
	urgentSeparator  = strings.Repeat("=", 40)
)

// Section renders one account's products as a report section
func Section(account string, platform scraper.Platform, events []classifier.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏪 %s (%s)\n%s\n", strings.ToUpper(account), platform, sectionSeparator)

	for _, e := range events {
		b.WriteString(productBlock(e))
	}

	return b.String()
}

// productBlock renders one classified product
func productBlock(e classifier.Event) string {
	if e.ZeroDiscount() {
		return fmt.Sprintf(
			"\n⚠️ PRODUCTO SIN DESCUENTO\n"+
				"📦 Producto: %s\n"+
				"💰 Precio: $%s\n",
			e.Product.Title,
			e.Product.OriginalPrice.StringFixed(2),
		)
	}

	block := fmt.Sprintf(
		"\n📦 Producto: %s\n"+
			"💰 Precio original: $%s\n"+
			"🏷️ Precio actual: $%s\n"+
			"📊 Descuento: %d%%\n",
		e.Product.Title,
		e.Product.OriginalPrice.StringFixed(2),
		e.Product.CurrentPrice.StringFixed(2),
		e.Product.Discount,
	)

	switch e.Kind {
	case classifier.New:
		block += "✨ (Nuevo producto)\n"
	case classifier.Decreased:
		block += fmt.Sprintf("📉 Descuento REDUCIDO: %d%% → %d%%\n", e.From, e.To)
	case classifier.Increased:
		block += fmt.Sprintf("📈 Descuento AUMENTADO: %d%% → %d%%\n", e.From, e.To)
	}

	return block
}

// Urgent renders the immediate alert bundle from this cycle's lost-discount
// events. Returns "" when there is nothing urgent.
func Urgent(events []classifier.Event, now time.Time) string {
	var entries []string
	for _, e := range events {
		if !e.Urgent() {
			continue
		}
		entries = append(entries, fmt.Sprintf(
			"\n%s ¡ALERTA URGENTE! %s\n"+
				"%s\n"+
				"❌ PRODUCTO SIN DESCUENTO ❌\n"+
				"📦 Producto: %s\n"+
				"💰 Precio actual: $%s\n"+
				"⚠️ ¡ACCIÓN INMEDIATA REQUERIDA!\n"+
				"%s\n",
			strings.Repeat("🚨", 5), strings.Repeat("🚨", 5),
			urgentSeparator,
			e.Product.Title,
			e.Product.CurrentPrice.StringFixed(2),
			urgentSeparator,
		))
	}

	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("🚨 ¡ALERTAS URGENTES! 🚨\n\n")
	b.WriteString(strings.Join(entries, "\n\n"))
	fmt.Fprintf(&b, "\n\n⏰ Alerta generada: %s", now.Format(TimeFormat))
	return b.String()
}

// Scheduled renders the full report bundle from the per-account sections.
// initial selects the first-cycle wording. Returns "" when there are no
// sections.
func Scheduled(sections []string, initial bool, now time.Time) string {
	if len(sections) == 0 {
		return ""
	}

	header := "📊 REPORTE PROGRAMADO 📊\n\n"
	if initial {
		header = "📊 REPORTE INICIAL DE PRODUCTOS 📊\n\n"
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Join(sections, "\n\n"))
	fmt.Fprintf(&b, "\n\n⏰ Reporte generado: %s", now.Format(TimeFormat))
	return b.String()
}
