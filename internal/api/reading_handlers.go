package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperlog/paperlog-server/internal/domain"
	"github.com/paperlog/paperlog-server/internal/service"
)

func (s *Server) registerReadingRoutes() {
	authed := huma.Middlewares{s.requireAuth}

	huma.Register(s.api, huma.Operation{
		OperationID: "list-readings",
		Method:      http.MethodGet,
		Path:        "/api/v1/readings",
		Summary:     "List readings",
		Description: "Returns the user's readings in display order for a period (all or a year)",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleListReadings)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-reading",
		Method:      http.MethodPost,
		Path:        "/api/v1/readings",
		Summary:     "Add a reading",
		Description: "Adds a finished book to the log, manually or prefilled from a lookup",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleAddReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-readings-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/readings/batch",
		Summary:     "Add several readings",
		Description: "Adds a batch of books atomically, keeping submission order",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleAddReadingsBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-reading",
		Method:      http.MethodPatch,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Update a reading",
		Description: "Replaces the editable fields of a record",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleUpdateReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-reading",
		Method:      http.MethodDelete,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Delete a reading",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleDeleteReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorder-readings",
		Method:      http.MethodPut,
		Path:        "/api/v1/readings/order",
		Summary:     "Reorder a reading year",
		Description: "Commits a drag-reorder for one year. The all-time view cannot be reordered.",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleReorderReadings)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulk-edit-dates",
		Method:      http.MethodPost,
		Path:        "/api/v1/readings/bulk-dates",
		Summary:     "Bulk edit read dates",
		Description: "Moves a batch of readings to new months atomically",
		Tags:        []string{"Readings"},
		Middlewares: authed,
	}, s.handleBulkEditDates)
}

// === DTOs ===

// ReadingPayload is the writable field set of a reading record.
type ReadingPayload struct {
	Title           string `json:"title" doc:"Book title"`
	Author          string `json:"author" doc:"Author name(s)"`
	IsFiction       bool   `json:"is_fiction,omitempty" doc:"Fiction flag"`
	Genre           string `json:"genre,omitempty" doc:"Genre label, defaults to General"`
	PageCount       int    `json:"page_count,omitempty" doc:"Page count, 0 = unknown"`
	PublicationYear int    `json:"publication_year,omitempty" doc:"First publication year, 0 = unknown"`
	CoverURL        string `json:"cover_url,omitempty" doc:"Cover image URL"`
	Country         string `json:"country,omitempty" doc:"Author country"`
	ISBN            string `json:"isbn,omitempty" doc:"ISBN, hyphens and spaces allowed"`
	Year            int    `json:"year" doc:"Reading year"`
	Month           int    `json:"month" doc:"Reading month (1-12)"`
}

// ListReadingsInput holds the period query for listing.
type ListReadingsInput struct {
	Period string `query:"period" doc:"Display period: \"all\" or a four digit year" example:"2024"`
}

// ReadingsOutput wraps a list of readings for Huma.
type ReadingsOutput struct {
	Body []domain.Reading
}

// ReadingInput wraps a single reading payload for Huma.
type ReadingInput struct {
	Body ReadingPayload
}

// ReadingOutput wraps a single reading for Huma.
type ReadingOutput struct {
	Body domain.Reading
}

// ReadingsBatchInput wraps a batch add request for Huma.
type ReadingsBatchInput struct {
	Body struct {
		Readings []ReadingPayload `json:"readings" doc:"Readings to add, in display order"`
	}
}

// UpdateReadingInput wraps an update request for Huma.
type UpdateReadingInput struct {
	ID   string `path:"id" doc:"Reading ID"`
	Body ReadingPayload
}

// DeleteReadingInput identifies the record to delete.
type DeleteReadingInput struct {
	ID string `path:"id" doc:"Reading ID"`
}

// ReorderInput wraps a reorder request for Huma.
type ReorderInput struct {
	Body struct {
		Year       int      `json:"year" doc:"Reading year to reorder"`
		OrderedIDs []string `json:"ordered_ids,omitempty" doc:"Full id list in the new order"`
		MovedID    string   `json:"moved_id,omitempty" doc:"Single record to move instead of a full list"`
		NewIndex   int      `json:"new_index,omitempty" doc:"Target position for moved_id"`
	}
}

// BulkDatesInput wraps a bulk date edit request for Huma.
type BulkDatesInput struct {
	Body struct {
		Items []struct {
			ID    string `json:"id" doc:"Reading ID"`
			Year  int    `json:"year" doc:"New reading year"`
			Month int    `json:"month" doc:"New reading month (1-12)"`
		} `json:"items" doc:"Date moves to apply atomically"`
	}
}

// === Handlers ===

func (s *Server) handleListReadings(ctx context.Context, input *ListReadingsInput) (*ReadingsOutput, error) {
	period, err := service.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	readings, err := s.services.Reading.List(ctx, getUserID(ctx), period)
	if err != nil {
		return nil, err
	}

	return &ReadingsOutput{Body: readings}, nil
}

func (s *Server) handleAddReading(ctx context.Context, input *ReadingInput) (*ReadingOutput, error) {
	reading, err := s.services.Reading.Add(ctx, getUserID(ctx), toAddRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: *reading}, nil
}

func (s *Server) handleAddReadingsBatch(ctx context.Context, input *ReadingsBatchInput) (*ReadingsOutput, error) {
	reqs := make([]service.AddReadingRequest, len(input.Body.Readings))
	for i, payload := range input.Body.Readings {
		reqs[i] = toAddRequest(payload)
	}

	readings, err := s.services.Reading.AddBatch(ctx, getUserID(ctx), reqs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Reading, len(readings))
	for i, r := range readings {
		result[i] = *r
	}
	return &ReadingsOutput{Body: result}, nil
}

func (s *Server) handleUpdateReading(ctx context.Context, input *UpdateReadingInput) (*ReadingOutput, error) {
	reading, err := s.services.Reading.Update(ctx, getUserID(ctx), input.ID, service.UpdateReadingRequest{
		Title:           input.Body.Title,
		Author:          input.Body.Author,
		IsFiction:       input.Body.IsFiction,
		Genre:           input.Body.Genre,
		PageCount:       input.Body.PageCount,
		PublicationYear: input.Body.PublicationYear,
		CoverURL:        input.Body.CoverURL,
		Country:         input.Body.Country,
		Year:            input.Body.Year,
		Month:           input.Body.Month,
	})
	if err != nil {
		return nil, err
	}

	return &ReadingOutput{Body: *reading}, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, input *DeleteReadingInput) (*MessageOutput, error) {
	if err := s.services.Reading.Delete(ctx, getUserID(ctx), input.ID); err != nil {
		return nil, err
	}

	out := &MessageOutput{}
	out.Body.Message = "Reading deleted"
	return out, nil
}

func (s *Server) handleReorderReadings(ctx context.Context, input *ReorderInput) (*ReadingsOutput, error) {
	readings, err := s.services.Reading.Reorder(ctx, getUserID(ctx), service.ReorderRequest{
		Year:       input.Body.Year,
		OrderedIDs: input.Body.OrderedIDs,
		MovedID:    input.Body.MovedID,
		NewIndex:   input.Body.NewIndex,
	})
	if err != nil {
		return nil, err
	}

	return &ReadingsOutput{Body: readings}, nil
}

func (s *Server) handleBulkEditDates(ctx context.Context, input *BulkDatesInput) (*MessageOutput, error) {
	items := make([]service.BulkDateItem, len(input.Body.Items))
	for i, item := range input.Body.Items {
		items[i] = service.BulkDateItem{ID: item.ID, Year: item.Year, Month: item.Month}
	}

	err := s.services.Reading.BulkEditDates(ctx, getUserID(ctx), service.BulkEditDatesRequest{Items: items})
	if err != nil {
		return nil, err
	}

	out := &MessageOutput{}
	out.Body.Message = "Read dates updated"
	return out, nil
}

func toAddRequest(p ReadingPayload) service.AddReadingRequest {
	return service.AddReadingRequest{
		Title:           p.Title,
		Author:          p.Author,
		IsFiction:       p.IsFiction,
		Genre:           p.Genre,
		PageCount:       p.PageCount,
		PublicationYear: p.PublicationYear,
		CoverURL:        p.CoverURL,
		Country:         p.Country,
		ISBN:            p.ISBN,
		Year:            p.Year,
		Month:           p.Month,
	}
}
