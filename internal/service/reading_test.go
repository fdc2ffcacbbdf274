package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlog/paperlog-server/internal/domain"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
	"github.com/paperlog/paperlog-server/internal/store"
	"github.com/paperlog/paperlog-server/internal/validation"
)

func setupReadingTest(t *testing.T) (*ReadingService, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return NewReadingService(s, validation.New(), nil), s
}

func addRequest(title string, year, month int) AddReadingRequest {
	return AddReadingRequest{
		Title:     title,
		Author:    "Some Author",
		IsFiction: true,
		Genre:     "Fantasy",
		PageCount: 300,
		Year:      year,
		Month:     month,
	}
}

func TestReadingService_Add(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	req := addRequest("The Dispossessed", 2024, 3)
	req.ISBN = "978-0-06-051275-7"

	reading, err := svc.Add(ctx, "user-1", req)
	require.NoError(t, err)

	assert.NotEmpty(t, reading.ID)
	assert.Equal(t, "user-1", reading.UserID)
	assert.Equal(t, "The Dispossessed", reading.Title)
	assert.Equal(t, 2024, reading.ReadYear)
	assert.Equal(t, time.March, reading.ReadDate.Month())
	assert.Equal(t, domain.ReadDay, reading.ReadDate.Day())
	assert.Equal(t, "9780060512757", reading.ISBN)
	require.NotNil(t, reading.OrderIndex)
	assert.Positive(t, *reading.OrderIndex)
}

func TestReadingService_Add_Defaults(t *testing.T) {
	svc, _ := setupReadingTest(t)

	req := addRequest("Untitled Draft", 2024, 1)
	req.Genre = ""
	req.CoverURL = ""

	reading, err := svc.Add(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, "General", reading.Genre)
	assert.Equal(t, "https://placehold.co/128x192/1f2937/ffffff?text=Untitled+Draft", reading.CoverURL)
}

func TestReadingService_Add_Validation(t *testing.T) {
	svc, _ := setupReadingTest(t)

	tests := []struct {
		name   string
		mutate func(*AddReadingRequest)
	}{
		{"missing title", func(r *AddReadingRequest) { r.Title = "" }},
		{"missing author", func(r *AddReadingRequest) { r.Author = "" }},
		{"month out of range", func(r *AddReadingRequest) { r.Month = 13 }},
		{"year out of range", func(r *AddReadingRequest) { r.Year = 99 }},
		{"negative pages", func(r *AddReadingRequest) { r.PageCount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := addRequest("Valid Title", 2024, 6)
			tt.mutate(&req)

			_, err := svc.Add(context.Background(), "user-1", req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestReadingService_AddBatch(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	readings, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("First", 2024, 1),
		addRequest("Second", 2024, 1),
		addRequest("Third", 2024, 2),
	})
	require.NoError(t, err)
	require.Len(t, readings, 3)

	// Order indexes keep submission order
	assert.Less(t, *readings[0].OrderIndex, *readings[1].OrderIndex)
	assert.Less(t, *readings[1].OrderIndex, *readings[2].OrderIndex)

	listed, err := svc.List(ctx, "user-1", domain.YearPeriod(2024))
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestReadingService_AddBatch_ValidationAborts(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	bad := addRequest("", 2024, 1)
	_, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("Fine", 2024, 1),
		bad,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))

	// Nothing was written
	listed, err := svc.List(ctx, "user-1", domain.PeriodAllTime)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestReadingService_List_Periods(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", addRequest("Old Year", 2023, 5))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "user-1", addRequest("New Year", 2024, 5))
	require.NoError(t, err)

	all, err := svc.List(ctx, "user-1", domain.PeriodAllTime)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// All-time view is newest first
	assert.Equal(t, "New Year", all[0].Title)

	year, err := svc.List(ctx, "user-1", domain.YearPeriod(2023))
	require.NoError(t, err)
	require.Len(t, year, 1)
	assert.Equal(t, "Old Year", year[0].Title)
}

func TestReadingService_Update(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	reading, err := svc.Add(ctx, "user-1", addRequest("Original", 2024, 2))
	require.NoError(t, err)
	originalIndex := *reading.OrderIndex

	updated, err := svc.Update(ctx, "user-1", reading.ID, UpdateReadingRequest{
		Title:     "Revised",
		Author:    "Another Author",
		IsFiction: false,
		Genre:     "History",
		PageCount: 450,
		Year:      2023,
		Month:     11,
	})
	require.NoError(t, err)

	assert.Equal(t, "Revised", updated.Title)
	assert.Equal(t, 2023, updated.ReadYear)
	assert.Equal(t, time.November, updated.ReadDate.Month())
	assert.Equal(t, domain.ReadDay, updated.ReadDate.Day())
	require.NotNil(t, updated.OrderIndex)
	assert.Equal(t, originalIndex, *updated.OrderIndex, "order index survives edits")

	// The record moved years
	listed, err := svc.List(ctx, "user-1", domain.YearPeriod(2023))
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestReadingService_Update_WrongOwner(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	reading, err := svc.Add(ctx, "user-1", addRequest("Private", 2024, 2))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-2", reading.ID, UpdateReadingRequest{
		Title:  "Stolen",
		Author: "Someone",
		Year:   2024,
		Month:  2,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestReadingService_Delete(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	reading, err := svc.Add(ctx, "user-1", addRequest("Doomed", 2024, 2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", reading.ID))

	// Idempotent
	require.NoError(t, svc.Delete(ctx, "user-1", reading.ID))

	_, err = svc.Get(ctx, "user-1", reading.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestReadingService_Delete_WrongOwner(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	reading, err := svc.Add(ctx, "user-1", addRequest("Private", 2024, 2))
	require.NoError(t, err)

	err = svc.Delete(ctx, "user-2", reading.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestReadingService_Reorder(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	readings, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("A", 2024, 1),
		addRequest("B", 2024, 1),
		addRequest("C", 2024, 1),
	})
	require.NoError(t, err)

	// Reverse the order
	resolved, err := svc.Reorder(ctx, "user-1", ReorderRequest{
		Year:       2024,
		OrderedIDs: []string{readings[2].ID, readings[1].ID, readings[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	assert.Equal(t, "C", resolved[0].Title)
	assert.Equal(t, "B", resolved[1].Title)
	assert.Equal(t, "A", resolved[2].Title)

	// Committed indexes are contiguous from zero
	for i, r := range resolved {
		require.NotNil(t, r.OrderIndex)
		assert.Equal(t, int64(i), *r.OrderIndex)
	}
}

func TestReadingService_Reorder_SingleMove(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	readings, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("A", 2024, 1),
		addRequest("B", 2024, 1),
		addRequest("C", 2024, 1),
	})
	require.NoError(t, err)

	// Move C to the front
	resolved, err := svc.Reorder(ctx, "user-1", ReorderRequest{
		Year:    2024,
		MovedID: readings[2].ID,
	})
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	assert.Equal(t, "C", resolved[0].Title)
	assert.Equal(t, "A", resolved[1].Title)
	assert.Equal(t, "B", resolved[2].Title)
}

func TestReadingService_Reorder_AllTimeRejected(t *testing.T) {
	svc, _ := setupReadingTest(t)

	_, err := svc.Reorder(context.Background(), "user-1", ReorderRequest{
		Year:       0,
		OrderedIDs: []string{"read-a"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestReadingService_Reorder_MembershipMismatch(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	readings, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("A", 2024, 1),
		addRequest("B", 2024, 1),
	})
	require.NoError(t, err)

	// Missing one of the year's records
	_, err = svc.Reorder(ctx, "user-1", ReorderRequest{
		Year:       2024,
		OrderedIDs: []string{readings[0].ID},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestReadingService_BulkEditDates(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	readings, err := svc.AddBatch(ctx, "user-1", []AddReadingRequest{
		addRequest("A", 2024, 1),
		addRequest("B", 2024, 2),
	})
	require.NoError(t, err)

	err = svc.BulkEditDates(ctx, "user-1", BulkEditDatesRequest{
		Items: []BulkDateItem{
			{ID: readings[0].ID, Year: 2023, Month: 12},
			{ID: readings[1].ID, Year: 2023, Month: 6},
		},
	})
	require.NoError(t, err)

	moved, err := svc.List(ctx, "user-1", domain.YearPeriod(2023))
	require.NoError(t, err)
	assert.Len(t, moved, 2)
	for _, r := range moved {
		assert.Equal(t, 2023, r.ReadYear)
		assert.Equal(t, domain.ReadDay, r.ReadDate.Day())
	}
}

func TestReadingService_BulkEditDates_MissingRecordAborts(t *testing.T) {
	svc, _ := setupReadingTest(t)
	ctx := context.Background()

	reading, err := svc.Add(ctx, "user-1", addRequest("A", 2024, 1))
	require.NoError(t, err)

	err = svc.BulkEditDates(ctx, "user-1", BulkEditDatesRequest{
		Items: []BulkDateItem{
			{ID: reading.ID, Year: 2023, Month: 12},
			{ID: "read-missing", Year: 2023, Month: 12},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	// The batch was atomic: nothing moved
	unchanged, err := svc.Get(ctx, "user-1", reading.ID)
	require.NoError(t, err)
	assert.Equal(t, 2024, unchanged.ReadYear)
}

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("")
	require.NoError(t, err)
	assert.True(t, period.IsAllTime())

	period, err = ParsePeriod("all")
	require.NoError(t, err)
	assert.True(t, period.IsAllTime())

	period, err = ParsePeriod("2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, period.Year())

	for _, invalid := range []string{"abc", "24", "-5", "123456"} {
		_, err = ParsePeriod(invalid)
		assert.Error(t, err, "period %q", invalid)
	}
}
