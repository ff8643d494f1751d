// Package classifier turns one product observation plus its discount
// history into a change event.
package classifier

import (
	"godlval/discountwatcher/internal/product"
)

// Kind is the change category of one observation
type Kind int

const (
	// New means the product had no history entry
	New Kind = iota
	// Unchanged means the discount equals the previous observation
	Unchanged
	// Increased means the discount grew since the previous observation
	Increased
	// Decreased means the discount shrank but is still above zero
	Decreased
	// Lost means a previously positive discount dropped to exactly zero
	Lost
	// NowZero means the discount is zero without a positive one on record
	NowZero
)

func (k Kind) String() string {
	switch k {
	case New:
		return "new"
	case Unchanged:
		return "unchanged"
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	case Lost:
		return "lost"
	case NowZero:
		return "now_zero"
	}
	return "unknown"
}

// Event is one classified observation
type Event struct {
	Kind    Kind
	Product product.Product
	// From and To carry the discount transition for Increased/Decreased/Lost
	From int
	To   int
}

// Classify determines the change category for a product given its previous
// discount. found reports whether a previous observation exists.
//
// A zero current discount always classifies into the zero-discount family:
// Lost when a positive discount was on record, NowZero otherwise (including
// never-seen products and 0 -> 0 repeats). Whether Lost should additionally
// suppress the regular zero-discount rendering is an open product decision;
// today both the urgent alert and the zero-discount block fire.
func Classify(p product.Product, prev int, found bool) Event {
	e := Event{Product: p, From: prev, To: p.Discount}

	if p.Discount == 0 {
		if found && prev > 0 {
			e.Kind = Lost
		} else {
			e.Kind = NowZero
		}
		return e
	}

	switch {
	case !found:
		e.Kind = New
	case p.Discount == prev:
		e.Kind = Unchanged
	case p.Discount < prev:
		e.Kind = Decreased
	default:
		e.Kind = Increased
	}
	return e
}

// Changed reports whether this event counts toward an account's
// "changes detected" state
func (e Event) Changed() bool {
	return e.Kind != Unchanged
}

// Urgent reports whether this event triggers the immediate alert path
func (e Event) Urgent() bool {
	return e.Kind == Lost
}

// ZeroDiscount reports whether this event renders in the zero-discount
// display format
func (e Event) ZeroDiscount() bool {
	return e.Kind == Lost || e.Kind == NowZero
}
