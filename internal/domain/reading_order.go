package domain

import (
	"math"
	"slices"
	"strconv"
)

// Period scopes a reading list to either a specific four-digit year or
// the whole log.
type Period int

// PeriodAllTime is the sentinel period covering every reading year.
const PeriodAllTime Period = 0

// YearPeriod builds a period for a specific year.
func YearPeriod(year int) Period {
	return Period(year)
}

// IsAllTime reports whether the period covers the whole log.
func (p Period) IsAllTime() bool {
	return p == PeriodAllTime
}

// Year returns the specific year, or 0 for all time.
func (p Period) Year() int {
	return int(p)
}

// String renders the period as "all" or the four-digit year.
func (p Period) String() string {
	if p.IsAllTime() {
		return "all"
	}
	return strconv.Itoa(int(p))
}

// orderIndexOrMax treats an absent order index as positive infinity so
// unordered records sort last in ascending order.
func orderIndexOrMax(r Reading) int64 {
	if r.OrderIndex == nil {
		return math.MaxInt64
	}
	return *r.OrderIndex
}

// ResolveDisplayOrder produces the display sequence for a period.
// The input is never modified; the result is a fresh slice.
//
// All time: read date descending (most recently finished first). Ties on
// equal dates fall back to order index descending, with absent indexes
// sorting first within the tie group. That inversion looks odd but is
// the established display behavior and is kept as is.
//
// Specific year: only records read that year, ordered by manual order
// index ascending (unordered records last), tie-broken by read date
// ascending with the zero date sorting first.
func ResolveDisplayOrder(records []Reading, period Period) []Reading {
	var out []Reading
	if period.IsAllTime() {
		out = slices.Clone(records)
		slices.SortStableFunc(out, func(a, b Reading) int {
			switch {
			case a.ReadDate.After(b.ReadDate):
				return -1
			case a.ReadDate.Before(b.ReadDate):
				return 1
			}
			ai, bi := orderIndexOrMax(a), orderIndexOrMax(b)
			switch {
			case bi < ai:
				return -1
			case bi > ai:
				return 1
			}
			return 0
		})
		return out
	}

	out = make([]Reading, 0)
	for _, r := range records {
		if r.ReadYear == period.Year() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Reading) int {
		ai, bi := orderIndexOrMax(a), orderIndexOrMax(b)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		switch {
		case a.ReadDate.Before(b.ReadDate):
			return -1
		case a.ReadDate.After(b.ReadDate):
			return 1
		}
		return 0
	})
	return out
}

// ApplyReorder moves the record with movedID to newIndex within an
// already-resolved display sequence. The input is never modified. An
// out-of-range newIndex is clamped; an unknown movedID returns the
// sequence unchanged.
func ApplyReorder(display []Reading, movedID string, newIndex int) []Reading {
	out := slices.Clone(display)

	from := slices.IndexFunc(out, func(r Reading) bool { return r.ID == movedID })
	if from == -1 {
		return out
	}

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(out)-1 {
		newIndex = len(out) - 1
	}

	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, newIndex, moved)
	return out
}
