package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/paperlog/paperlog-server/internal/catalog"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
	"github.com/paperlog/paperlog-server/internal/normalize"
)

// Fallbacks for catalog records with missing fields.
const (
	unknownTitle  = "Unknown Title"
	unknownAuthor = "Unknown Author"
)

// LookupStatus classifies the outcome of a single batch lookup item.
type LookupStatus string

const (
	LookupFound    LookupStatus = "found"
	LookupNotFound LookupStatus = "not_found"
	LookupFailed   LookupStatus = "failed"
)

// BookMetadata is a catalog volume normalized into our domain's shape,
// ready to prefill a reading record.
type BookMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	IsFiction       bool   `json:"is_fiction"`
	Genre           string `json:"genre"`
	PageCount       int    `json:"page_count"`
	PublicationYear int    `json:"publication_year"`
	CoverURL        string `json:"cover_url"`
	ISBN            string `json:"isbn"`
}

// LookupResult is one item of a batch lookup. Failures are per-item
// data so a single bad ISBN never aborts the rest of the batch.
type LookupResult struct {
	ISBN   string        `json:"isbn"`
	Status LookupStatus  `json:"status"`
	Book   *BookMetadata `json:"book,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// CatalogService looks up book metadata from the external catalog and
// normalizes it for the reading log.
type CatalogService struct {
	client *catalog.Client
	logger *slog.Logger
}

// NewCatalogService creates a new catalog lookup service.
func NewCatalogService(client *catalog.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: logger,
	}
}

// Lookup fetches and normalizes metadata for a single ISBN.
func (s *CatalogService) Lookup(ctx context.Context, rawISBN string) (*BookMetadata, error) {
	isbn := normalize.SanitizeISBN(rawISBN)
	if isbn == "" {
		return nil, domainerrors.Validation("isbn is required")
	}

	volume, err := s.client.LookupISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, catalog.ErrVolumeNotFound) {
			return nil, domainerrors.NotFoundf("no catalog entry for ISBN %s", isbn)
		}
		return nil, domainerrors.Upstream("catalog lookup failed").WithCause(err)
	}

	return s.normalizeVolume(volume, isbn), nil
}

// LookupMany looks up a batch of ISBNs concurrently. Results are
// returned in input order, each independently found, not found, or
// failed.
func (s *CatalogService) LookupMany(ctx context.Context, isbns []string) []LookupResult {
	results := make([]LookupResult, len(isbns))

	var wg sync.WaitGroup
	for i, raw := range isbns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.lookupOne(ctx, raw)
		}()
	}
	wg.Wait()

	return results
}

func (s *CatalogService) lookupOne(ctx context.Context, rawISBN string) LookupResult {
	// Results carry the caller's original string so a not-found row can
	// be matched back to what the user typed; the query itself uses the
	// sanitized form.
	isbn := normalize.SanitizeISBN(rawISBN)
	result := LookupResult{ISBN: rawISBN}

	if isbn == "" {
		result.Status = LookupFailed
		result.Error = "isbn is required"
		return result
	}

	volume, err := s.client.LookupISBN(ctx, isbn)
	switch {
	case err == nil:
		result.Status = LookupFound
		result.Book = s.normalizeVolume(volume, isbn)
	case errors.Is(err, catalog.ErrVolumeNotFound):
		result.Status = LookupNotFound
	default:
		if s.logger != nil {
			s.logger.Warn("Catalog lookup failed", "isbn", isbn, "error", err)
		}
		result.Status = LookupFailed
		result.Error = "catalog lookup failed"
	}

	return result
}

// normalizeVolume maps a raw catalog volume into BookMetadata, applying
// the category normalizer and cover fallback.
func (s *CatalogService) normalizeVolume(v *catalog.Volume, isbn string) *BookMetadata {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = unknownTitle
	}

	author := strings.Join(v.Authors, ", ")
	if author == "" {
		author = unknownAuthor
	}

	cover := v.Thumbnail
	if cover == "" {
		cover = catalog.PlaceholderCoverURL(title)
	}

	return &BookMetadata{
		Title:           title,
		Author:          author,
		IsFiction:       !normalize.IsNonFiction(v.Categories),
		Genre:           normalize.ParseGenre(v.Categories),
		PageCount:       v.PageCount,
		PublicationYear: publicationYear(v.PublishedDate),
		CoverURL:        cover,
		ISBN:            isbn,
	}
}

// publicationYear extracts the year from a published date like "2006",
// "2006-01" or "2006-01-02". Returns 0 when unparseable.
func publicationYear(publishedDate string) int {
	if len(publishedDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(publishedDate[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}
