package sales

import (
	"time"
)

// Criteria is the set of user-selected filter constraints. An empty set on a
// dimension allows every value; zero date bounds are unbounded.
type Criteria struct {
	Regions   map[string]struct{}
	Retailers map[string]struct{}
	States    map[string]struct{}
	From      time.Time // inclusive
	To        time.Time // exclusive
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// WithRegions returns a copy of c allowing only the given regions.
func (c Criteria) WithRegions(regions ...string) Criteria {
	c.Regions = toSet(regions)
	return c
}

// WithRetailers returns a copy of c allowing only the given retailers.
func (c Criteria) WithRetailers(retailers ...string) Criteria {
	c.Retailers = toSet(retailers)
	return c
}

// WithStates returns a copy of c allowing only the given states.
func (c Criteria) WithStates(states ...string) Criteria {
	c.States = toSet(states)
	return c
}

// WithDateRange returns a copy of c covering the calendar days first through
// last, both included.
func (c Criteria) WithDateRange(first, last time.Time) Criteria {
	c.From = truncateDay(first)
	c.To = truncateDay(last).AddDate(0, 0, 1)
	return c
}

// WithDay returns a copy of c covering the single day d.
func (c Criteria) WithDay(d time.Time) Criteria {
	return c.WithDateRange(d, d)
}

func (c Criteria) hasDateBound() bool {
	return !c.From.IsZero() || !c.To.IsZero()
}

func allowed(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

// Matches reports whether r satisfies every constraint of c.
func (c Criteria) Matches(r Record) bool {
	if !allowed(c.Regions, r.Region) || !allowed(c.Retailers, r.Retailer) || !allowed(c.States, r.State) {
		return false
	}
	if !c.hasDateBound() {
		return true
	}
	if !r.HasDate {
		return false
	}
	if !c.From.IsZero() && r.InvoiceDate.Before(c.From) {
		return false
	}
	if !c.To.IsZero() && !r.InvoiceDate.Before(c.To) {
		return false
	}
	return true
}

// restrictTo drops constraints on dimensions the schema does not provide.
func (c Criteria) restrictTo(s Schema) Criteria {
	if !s.Has(FieldRegion) {
		c.Regions = nil
	}
	if !s.Has(FieldRetailer) {
		c.Retailers = nil
	}
	if !s.Has(FieldState) {
		c.States = nil
	}
	if !s.Has(FieldInvoiceDate) {
		c.From, c.To = time.Time{}, time.Time{}
	}
	return c
}

// Apply returns the records matching c as a new slice. records is not modified.
func Apply(records []Record, c Criteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
