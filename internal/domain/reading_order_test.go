package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idx(v int64) *int64 {
	return &v
}

func reading(id string, year int, month time.Month, orderIndex *int64) Reading {
	return Reading{
		ID:         id,
		Title:      "Book " + id,
		ReadYear:   year,
		ReadDate:   ReadDateFor(year, month),
		OrderIndex: orderIndex,
	}
}

func ids(records []Reading) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestPeriod(t *testing.T) {
	assert.True(t, PeriodAllTime.IsAllTime())
	assert.False(t, YearPeriod(2024).IsAllTime())
	assert.Equal(t, 2024, YearPeriod(2024).Year())
	assert.Equal(t, "all", PeriodAllTime.String())
	assert.Equal(t, "2024", YearPeriod(2024).String())
}

func TestResolveDisplayOrder_AllTime_DateDescending(t *testing.T) {
	records := []Reading{
		reading("a", 2022, time.March, idx(0)),
		reading("b", 2024, time.July, idx(1)),
		reading("c", 2023, time.January, idx(2)),
	}

	got := ResolveDisplayOrder(records, PeriodAllTime)

	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestResolveDisplayOrder_AllTime_TieBreak(t *testing.T) {
	// Equal read dates: larger order index first, absent index first of all.
	records := []Reading{
		reading("low", 2024, time.May, idx(1)),
		reading("high", 2024, time.May, idx(9)),
		reading("none", 2024, time.May, nil),
	}

	got := ResolveDisplayOrder(records, PeriodAllTime)

	assert.Equal(t, []string{"none", "high", "low"}, ids(got))
}

func TestResolveDisplayOrder_AllTime_ZeroDatesTreatedEqual(t *testing.T) {
	zero := Reading{ID: "zero", OrderIndex: idx(3)}
	zero2 := Reading{ID: "zero2", OrderIndex: idx(7)}
	dated := reading("dated", 2020, time.June, idx(1))

	got := ResolveDisplayOrder([]Reading{zero, zero2, dated}, PeriodAllTime)

	// Dated record is most recent; zero dates tie against each other and
	// fall back to order index descending.
	assert.Equal(t, []string{"dated", "zero2", "zero"}, ids(got))
}

func TestResolveDisplayOrder_Year_FiltersAndSortsAscending(t *testing.T) {
	records := []Reading{
		reading("other-year", 2023, time.April, idx(0)),
		reading("second", 2024, time.February, idx(5)),
		reading("first", 2024, time.November, idx(2)),
	}

	got := ResolveDisplayOrder(records, YearPeriod(2024))

	assert.Equal(t, []string{"first", "second"}, ids(got))
}

func TestResolveDisplayOrder_Year_UnorderedSortLast(t *testing.T) {
	records := []Reading{
		reading("none-late", 2024, time.October, nil),
		reading("ordered", 2024, time.December, idx(4)),
		reading("none-early", 2024, time.February, nil),
	}

	got := ResolveDisplayOrder(records, YearPeriod(2024))

	// Unordered records sort last, among themselves by read date ascending.
	assert.Equal(t, []string{"ordered", "none-early", "none-late"}, ids(got))
}

func TestResolveDisplayOrder_Year_ZeroDateSortsFirstAmongUnordered(t *testing.T) {
	zeroDate := Reading{ID: "zero", ReadYear: 2024}
	records := []Reading{
		reading("june", 2024, time.June, nil),
		zeroDate,
	}

	got := ResolveDisplayOrder(records, YearPeriod(2024))

	assert.Equal(t, []string{"zero", "june"}, ids(got))
}

func TestResolveDisplayOrder_Idempotent(t *testing.T) {
	records := []Reading{
		reading("a", 2024, time.May, idx(3)),
		reading("b", 2024, time.May, nil),
		reading("c", 2023, time.December, idx(1)),
	}

	for _, period := range []Period{PeriodAllTime, YearPeriod(2024)} {
		first := ResolveDisplayOrder(records, period)
		second := ResolveDisplayOrder(records, period)
		assert.Equal(t, first, second)
	}
}

func TestResolveDisplayOrder_DoesNotModifyInput(t *testing.T) {
	records := []Reading{
		reading("a", 2022, time.March, idx(2)),
		reading("b", 2024, time.July, idx(1)),
	}
	original := ids(records)

	_ = ResolveDisplayOrder(records, PeriodAllTime)

	assert.Equal(t, original, ids(records))
}

func TestResolveDisplayOrder_EmptyInput(t *testing.T) {
	assert.Empty(t, ResolveDisplayOrder(nil, PeriodAllTime))
	assert.Empty(t, ResolveDisplayOrder(nil, YearPeriod(2024)))
}

func TestApplyReorder_MoveForward(t *testing.T) {
	display := []Reading{
		reading("a", 2024, time.January, idx(0)),
		reading("b", 2024, time.February, idx(1)),
		reading("c", 2024, time.March, idx(2)),
		reading("d", 2024, time.April, idx(3)),
	}

	got := ApplyReorder(display, "a", 2)

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(got))
}

func TestApplyReorder_MoveBackward(t *testing.T) {
	display := []Reading{
		reading("a", 2024, time.January, idx(0)),
		reading("b", 2024, time.February, idx(1)),
		reading("c", 2024, time.March, idx(2)),
	}

	got := ApplyReorder(display, "c", 0)

	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestApplyReorder_ClampsOutOfRange(t *testing.T) {
	display := []Reading{
		reading("a", 2024, time.January, idx(0)),
		reading("b", 2024, time.February, idx(1)),
	}

	assert.Equal(t, []string{"b", "a"}, ids(ApplyReorder(display, "a", 99)))
	assert.Equal(t, []string{"b", "a"}, ids(ApplyReorder(display, "b", -5)))
}

func TestApplyReorder_UnknownIDUnchanged(t *testing.T) {
	display := []Reading{
		reading("a", 2024, time.January, idx(0)),
		reading("b", 2024, time.February, idx(1)),
	}

	got := ApplyReorder(display, "missing", 0)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApplyReorder_DoesNotModifyInput(t *testing.T) {
	display := []Reading{
		reading("a", 2024, time.January, idx(0)),
		reading("b", 2024, time.February, idx(1)),
	}

	_ = ApplyReorder(display, "a", 1)

	assert.Equal(t, []string{"a", "b"}, ids(display))
}

func TestReorderRoundTrip(t *testing.T) {
	// After a reorder and a contiguous index rewrite, resolving again
	// must reproduce the dragged sequence exactly.
	records := []Reading{
		reading("a", 2024, time.January, idx(100)),
		reading("b", 2024, time.February, idx(200)),
		reading("c", 2024, time.March, nil),
		reading("d", 2024, time.April, idx(150)),
	}

	display := ResolveDisplayOrder(records, YearPeriod(2024))
	require.Equal(t, []string{"a", "d", "b", "c"}, ids(display))

	reordered := ApplyReorder(display, "c", 1)
	require.Equal(t, []string{"a", "c", "d", "b"}, ids(reordered))

	// Commit: positions become the new order indexes.
	committed := make([]Reading, len(reordered))
	for i, r := range reordered {
		r.OrderIndex = idx(int64(i))
		committed[i] = r
	}

	resolved := ResolveDisplayOrder(committed, YearPeriod(2024))
	assert.Equal(t, ids(reordered), ids(resolved))
}

func TestReadDateFor(t *testing.T) {
	d := ReadDateFor(2024, time.September)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, ReadDay, d.Day())
}

func TestSetReadDate_KeepsYearConsistent(t *testing.T) {
	r := reading("a", 2022, time.March, nil)
	r.SetReadDate(2024, time.July)

	assert.Equal(t, 2024, r.ReadYear)
	assert.Equal(t, r.ReadDate.Year(), r.ReadYear)
	assert.Equal(t, time.July, r.ReadDate.Month())
	assert.Equal(t, ReadDay, r.ReadDate.Day())
}
