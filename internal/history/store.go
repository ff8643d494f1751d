// Package history keeps the last observed discount per account and product
// title for the lifetime of the process. The store is owned by the watcher
// and passed by reference; only one cycle is ever in flight, so there is no
// locking.
package history

// Store maps account name -> product title -> last seen discount percent.
// Entries are never evicted; products that disappear from a listing simply
// stop being updated.
type Store struct {
	discounts map[string]map[string]int
}

// NewStore creates an empty history store
func NewStore() *Store {
	return &Store{
		discounts: make(map[string]map[string]int),
	}
}

// Previous returns the last observed discount for a product, if any
func (s *Store) Previous(account, title string) (int, bool) {
	products, ok := s.discounts[account]
	if !ok {
		return 0, false
	}
	discount, ok := products[title]
	return discount, ok
}

// Set records the discount observed this cycle
func (s *Store) Set(account, title string, discount int) {
	products, ok := s.discounts[account]
	if !ok {
		products = make(map[string]int)
		s.discounts[account] = products
	}
	products[title] = discount
}

// FirstCycle reports whether the store has never held any entry.
// The watcher reads it at the start of a cycle, before that cycle's writes.
func (s *Store) FirstCycle() bool {
	for _, products := range s.discounts {
		if len(products) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of tracked products across accounts
func (s *Store) Len() int {
	total := 0
	for _, products := range s.discounts {
		total += len(products)
	}
	return total
}
