package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the range between two days, whatever their order.
func NewRange(a, b Date) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{From: a, To: b}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Overlaps reports whether r and x share at least one day.
func (r Range) Overlaps(x Range) bool { return !r.To.Before(x.From) && !x.To.Before(r.From) }

func (r Range) String() string { return fmt.Sprintf("%s_%s", r.From, r.To) }

// Ranges is a collection of possibly overlapping ranges.
//
// Its zero value is an empty collection ready to use.
type Ranges []Range

// Add appends a range to the collection.
func (rs *Ranges) Add(r Range) { *rs = append(*rs, r) }

// Overlaps reports whether any range of the collection shares a day with r.
func (rs Ranges) Overlaps(r Range) bool {
	for _, x := range rs {
		if x.Overlaps(r) {
			return true
		}
	}
	return false
}

// Contains reports whether any range of the collection contains date.
func (rs Ranges) Contains(date Date) bool {
	for _, r := range rs {
		if r.Contains(date) {
			return true
		}
	}
	return false
}
