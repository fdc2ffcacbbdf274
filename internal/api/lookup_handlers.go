package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperlog/paperlog-server/internal/service"
)

func (s *Server) registerLookupRoutes() {
	authed := huma.Middlewares{s.requireAuth}

	huma.Register(s.api, huma.Operation{
		OperationID: "lookup-isbn",
		Method:      http.MethodGet,
		Path:        "/api/v1/lookup/{isbn}",
		Summary:     "Look up a book by ISBN",
		Description: "Fetches normalized book metadata from the catalog provider",
		Tags:        []string{"Lookup"},
		Middlewares: authed,
	}, s.handleLookup)

	huma.Register(s.api, huma.Operation{
		OperationID: "lookup-isbn-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/lookup/batch",
		Summary:     "Look up several ISBNs",
		Description: "Resolves a batch of ISBNs concurrently. Per-item failures do not fail the batch.",
		Tags:        []string{"Lookup"},
		Middlewares: authed,
	}, s.handleLookupBatch)
}

// LookupInput identifies the ISBN to resolve.
type LookupInput struct {
	ISBN string `path:"isbn" doc:"ISBN-10 or ISBN-13, hyphens and spaces allowed"`
}

// LookupOutput wraps a single lookup result for Huma.
type LookupOutput struct {
	Body service.BookMetadata
}

// LookupBatchInput wraps a batch lookup request for Huma.
type LookupBatchInput struct {
	Body struct {
		ISBNs []string `json:"isbns" doc:"ISBNs to resolve" minItems:"1" maxItems:"50"`
	}
}

// LookupBatchOutput wraps per-ISBN lookup results for Huma.
type LookupBatchOutput struct {
	Body struct {
		Results []service.LookupResult `json:"results" doc:"One entry per submitted ISBN, in input order"`
	}
}

func (s *Server) handleLookup(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
	book, err := s.services.Catalog.Lookup(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}

	return &LookupOutput{Body: *book}, nil
}

func (s *Server) handleLookupBatch(ctx context.Context, input *LookupBatchInput) (*LookupBatchOutput, error) {
	out := &LookupBatchOutput{}
	out.Body.Results = s.services.Catalog.LookupMany(ctx, input.Body.ISBNs)
	return out, nil
}
