package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/paperlog/paperlog-server/internal/catalog"
	"github.com/paperlog/paperlog-server/internal/domain"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
	"github.com/paperlog/paperlog-server/internal/id"
	"github.com/paperlog/paperlog-server/internal/normalize"
	"github.com/paperlog/paperlog-server/internal/store"
	"github.com/paperlog/paperlog-server/internal/validation"
)

// ReadingService manages a user's reading log: creation, edits, display
// ordering and bulk date moves.
type ReadingService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReadingService creates a new reading log service.
func NewReadingService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *ReadingService {
	return &ReadingService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AddReadingRequest contains the fields for a new reading record,
// either manual or prefilled from a catalog lookup.
type AddReadingRequest struct {
	Title           string `json:"title" validate:"required,max=500"`
	Author          string `json:"author" validate:"required,max=500"`
	IsFiction       bool   `json:"is_fiction"`
	Genre           string `json:"genre" validate:"max=200"`
	PageCount       int    `json:"page_count" validate:"gte=0"`
	PublicationYear int    `json:"publication_year" validate:"gte=0"`
	CoverURL        string `json:"cover_url" validate:"omitempty,url"`
	Country         string `json:"country" validate:"max=100"`
	ISBN            string `json:"isbn" validate:"max=20"`
	Year            int    `json:"year" validate:"required,gte=1000,lte=9999"`
	Month           int    `json:"month" validate:"required,gte=1,lte=12"`
}

// UpdateReadingRequest replaces the editable field set of a record.
type UpdateReadingRequest struct {
	Title           string `json:"title" validate:"required,max=500"`
	Author          string `json:"author" validate:"required,max=500"`
	IsFiction       bool   `json:"is_fiction"`
	Genre           string `json:"genre" validate:"max=200"`
	PageCount       int    `json:"page_count" validate:"gte=0"`
	PublicationYear int    `json:"publication_year" validate:"gte=0"`
	CoverURL        string `json:"cover_url" validate:"omitempty,url"`
	Country         string `json:"country" validate:"max=100"`
	Year            int    `json:"year" validate:"required,gte=1000,lte=9999"`
	Month           int    `json:"month" validate:"required,gte=1,lte=12"`
}

// ReorderRequest commits a drag-reorder within one reading year.
// Either the full ordered id list or a single move can be sent; a move
// is resolved against the current display order before committing.
type ReorderRequest struct {
	Year       int      `json:"year" validate:"required,gte=1000,lte=9999"`
	OrderedIDs []string `json:"ordered_ids" validate:"omitempty,min=1,dive,required"`
	MovedID    string   `json:"moved_id"`
	NewIndex   int      `json:"new_index" validate:"gte=0"`
}

// BulkDateItem moves one record to a new year and month.
type BulkDateItem struct {
	ID    string `json:"id" validate:"required"`
	Year  int    `json:"year" validate:"required,gte=1000,lte=9999"`
	Month int    `json:"month" validate:"required,gte=1,lte=12"`
}

// BulkEditDatesRequest is an atomic batch of date moves.
type BulkEditDatesRequest struct {
	Items []BulkDateItem `json:"items" validate:"required,min=1,dive"`
}

// ParsePeriod parses a period query value: empty or "all" for the
// all-time view, otherwise a four digit year.
func ParsePeriod(s string) (domain.Period, error) {
	if s == "" || s == "all" {
		return domain.PeriodAllTime, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 || year > 9999 {
		return domain.PeriodAllTime, domainerrors.Validationf("invalid period %q: expected \"all\" or a four digit year", s)
	}
	return domain.YearPeriod(year), nil
}

// Add creates a single reading record. The creation timestamp doubles
// as the initial order index so new books land after existing ones.
func (s *ReadingService) Add(ctx context.Context, userID string, req AddReadingRequest) (*domain.Reading, error) {
	reading, err := s.buildReading(userID, req, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Reading added",
			"user_id", userID,
			"reading_id", reading.ID,
			"title", reading.Title,
		)
	}

	return reading, nil
}

// AddBatch creates several records atomically. Order indexes are
// base + position so the batch keeps its submission order.
func (s *ReadingService) AddBatch(ctx context.Context, userID string, reqs []AddReadingRequest) ([]*domain.Reading, error) {
	if len(reqs) == 0 {
		return nil, domainerrors.Validation("at least one reading is required")
	}

	base := time.Now().UnixMilli()
	readings := make([]*domain.Reading, 0, len(reqs))
	for i, req := range reqs {
		reading, err := s.buildReading(userID, req, base+int64(i))
		if err != nil {
			return nil, domainerrors.Validationf("item %d: %s", i, err.Error())
		}
		readings = append(readings, reading)
	}

	if err := s.store.CreateReadings(ctx, readings); err != nil {
		return nil, fmt.Errorf("create readings: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Readings added", "user_id", userID, "count", len(readings))
	}

	return readings, nil
}

// List returns the user's readings in resolved display order for a
// period.
func (s *ReadingService) List(ctx context.Context, userID string, period domain.Period) ([]domain.Reading, error) {
	records, err := s.store.ListReadingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return domain.ResolveDisplayOrder(records, period), nil
}

// Get fetches a single record, enforcing ownership.
func (s *ReadingService) Get(ctx context.Context, userID, readingID string) (*domain.Reading, error) {
	reading, err := s.store.GetReading(ctx, readingID)
	if err != nil {
		if errors.Is(err, store.ErrReadingNotFound) {
			return nil, domainerrors.NotFound("reading not found")
		}
		return nil, fmt.Errorf("get reading: %w", err)
	}
	if reading.UserID != userID {
		return nil, domainerrors.Forbidden("reading belongs to another user")
	}
	return reading, nil
}

// Update replaces the editable field set of a record and recomputes its
// read date. The order index is left untouched.
func (s *ReadingService) Update(ctx context.Context, userID, readingID string, req UpdateReadingRequest) (*domain.Reading, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reading, err := s.Get(ctx, userID, readingID)
	if err != nil {
		return nil, err
	}

	reading.Title = req.Title
	reading.Author = req.Author
	reading.IsFiction = req.IsFiction
	reading.Genre = genreOrDefault(req.Genre)
	reading.PageCount = req.PageCount
	reading.PublicationYear = req.PublicationYear
	reading.CoverURL = req.CoverURL
	reading.Country = req.Country
	reading.SetReadDate(req.Year, time.Month(req.Month))

	if err := s.store.UpdateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("update reading: %w", err)
	}

	return reading, nil
}

// Delete removes a record. Deleting an already absent record succeeds.
func (s *ReadingService) Delete(ctx context.Context, userID, readingID string) error {
	reading, err := s.store.GetReading(ctx, readingID)
	if err != nil {
		if errors.Is(err, store.ErrReadingNotFound) {
			return nil
		}
		return fmt.Errorf("get reading: %w", err)
	}
	if reading.UserID != userID {
		return domainerrors.Forbidden("reading belongs to another user")
	}

	if err := s.store.DeleteReading(ctx, readingID); err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Reading deleted", "user_id", userID, "reading_id", readingID)
	}

	return nil
}

// Reorder commits a new manual order for one reading year and returns
// the re-resolved display order. Only a specific year can be reordered;
// the all-time view is date-sorted and has no manual order.
func (s *ReadingService) Reorder(ctx context.Context, userID string, req ReorderRequest) ([]domain.Reading, error) {
	if req.Year == 0 {
		return nil, domainerrors.Conflict("the all-time view is date-sorted and cannot be reordered")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	orderedIDs := req.OrderedIDs
	if len(orderedIDs) == 0 {
		if req.MovedID == "" {
			return nil, domainerrors.Validation("either ordered_ids or moved_id is required")
		}
		ids, err := s.resolveMove(ctx, userID, req)
		if err != nil {
			return nil, err
		}
		orderedIDs = ids
	}

	if err := s.store.SetReadingOrder(ctx, userID, req.Year, orderedIDs); err != nil {
		if errors.Is(err, store.ErrOrderMembershipChanged) {
			return nil, domainerrors.Validation("ordered ids must exactly cover the year's readings")
		}
		return nil, fmt.Errorf("set reading order: %w", err)
	}

	return s.List(ctx, userID, domain.YearPeriod(req.Year))
}

// resolveMove turns a single drag (moved_id to new_index) into a full
// ordered id list against the current display order.
func (s *ReadingService) resolveMove(ctx context.Context, userID string, req ReorderRequest) ([]string, error) {
	display, err := s.List(ctx, userID, domain.YearPeriod(req.Year))
	if err != nil {
		return nil, err
	}

	moved := domain.ApplyReorder(display, req.MovedID, req.NewIndex)
	ids := make([]string, len(moved))
	for i, r := range moved {
		ids[i] = r.ID
	}
	return ids, nil
}

// BulkEditDates moves a batch of records to new months atomically.
func (s *ReadingService) BulkEditDates(ctx context.Context, userID string, req BulkEditDatesRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	updates := make([]store.ReadDateUpdate, len(req.Items))
	for i, item := range req.Items {
		updates[i] = store.ReadDateUpdate{
			ID:    item.ID,
			Year:  item.Year,
			Month: time.Month(item.Month),
		}
	}

	if err := s.store.BulkUpdateReadDates(ctx, userID, updates); err != nil {
		if errors.Is(err, store.ErrReadingNotFound) {
			return domainerrors.NotFound("one or more readings were not found")
		}
		return fmt.Errorf("bulk update read dates: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Read dates updated", "user_id", userID, "count", len(updates))
	}

	return nil
}

// buildReading validates a request and assembles a new record.
func (s *ReadingService) buildReading(userID string, req AddReadingRequest, orderIndex int64) (*domain.Reading, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	readingID, err := id.Generate("read")
	if err != nil {
		return nil, fmt.Errorf("generate reading ID: %w", err)
	}

	cover := req.CoverURL
	if cover == "" {
		cover = catalog.PlaceholderCoverURL(req.Title)
	}

	now := time.Now()
	reading := &domain.Reading{
		ID:              readingID,
		UserID:          userID,
		Title:           req.Title,
		Author:          req.Author,
		IsFiction:       req.IsFiction,
		Genre:           genreOrDefault(req.Genre),
		PageCount:       req.PageCount,
		PublicationYear: req.PublicationYear,
		CoverURL:        cover,
		Country:         req.Country,
		ISBN:            normalize.SanitizeISBN(req.ISBN),
		OrderIndex:      &orderIndex,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	reading.SetReadDate(req.Year, time.Month(req.Month))

	return reading, nil
}

func genreOrDefault(genre string) string {
	if genre == "" {
		return normalize.DefaultGenre
	}
	return genre
}
