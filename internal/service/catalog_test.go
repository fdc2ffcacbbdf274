package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlog/paperlog-server/internal/catalog"
	domainerrors "github.com/paperlog/paperlog-server/internal/errors"
)

// fakeVolumesServer serves canned Google Books responses keyed by ISBN.
// ISBNs starting with "999" return a server error, unknown ISBNs an
// empty result set.
func fakeVolumesServer(t *testing.T) *httptest.Server {
	t.Helper()

	responses := map[string]string{
		"9780060512757": `{
			"totalItems": 1,
			"items": [{
				"id": "vol-1",
				"volumeInfo": {
					"title": "The Dispossessed",
					"authors": ["Ursula K. Le Guin"],
					"categories": ["Fiction / Fantasy / Epic"],
					"pageCount": 387,
					"publishedDate": "1974-05-01",
					"imageLinks": {"thumbnail": "https://books.example.com/covers/vol-1.jpg"}
				}
			}]
		}`,
		"9780743273565": `{
			"totalItems": 1,
			"items": [{
				"id": "vol-2",
				"volumeInfo": {
					"title": "A Short History of Nearly Everything",
					"authors": ["Bill Bryson"],
					"categories": ["Science / History of Science"],
					"pageCount": 544,
					"publishedDate": "2003"
				}
			}]
		}`,
		"9780000000001": `{
			"totalItems": 1,
			"items": [{
				"id": "vol-3",
				"volumeInfo": {}
			}]
		}`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isbn := r.URL.Query().Get("q")
		if len(isbn) > 5 {
			isbn = isbn[5:] // strip "isbn:" prefix
		}
		if len(isbn) >= 3 && isbn[:3] == "999" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := responses[isbn]
		if !ok {
			body = `{"totalItems": 0}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func setupCatalogTest(t *testing.T) *CatalogService {
	t.Helper()

	server := fakeVolumesServer(t)
	t.Cleanup(server.Close)

	client := catalog.NewClient(server.URL, "", 100, slog.New(slog.DiscardHandler))
	return NewCatalogService(client, nil)
}

func TestCatalogService_Lookup(t *testing.T) {
	svc := setupCatalogTest(t)

	book, err := svc.Lookup(context.Background(), "978-0-06-051275-7")
	require.NoError(t, err)

	assert.Equal(t, "The Dispossessed", book.Title)
	assert.Equal(t, "Ursula K. Le Guin", book.Author)
	assert.True(t, book.IsFiction)
	assert.Equal(t, "Epic", book.Genre)
	assert.Equal(t, 387, book.PageCount)
	assert.Equal(t, 1974, book.PublicationYear)
	assert.Equal(t, "https://books.example.com/covers/vol-1.jpg", book.CoverURL)
	assert.Equal(t, "9780060512757", book.ISBN)
}

func TestCatalogService_Lookup_NonFiction(t *testing.T) {
	svc := setupCatalogTest(t)

	book, err := svc.Lookup(context.Background(), "9780743273565")
	require.NoError(t, err)

	assert.False(t, book.IsFiction)
	assert.Equal(t, "History of Science", book.Genre)
	assert.Equal(t, 2003, book.PublicationYear)
	// Placeholder cover when the catalog has no thumbnail
	assert.Contains(t, book.CoverURL, "placehold.co")
}

func TestCatalogService_Lookup_EmptyVolume(t *testing.T) {
	svc := setupCatalogTest(t)

	book, err := svc.Lookup(context.Background(), "9780000000001")
	require.NoError(t, err)

	assert.Equal(t, "Unknown Title", book.Title)
	assert.Equal(t, "Unknown Author", book.Author)
	assert.True(t, book.IsFiction, "empty categories default to fiction")
	assert.Equal(t, "General", book.Genre)
	assert.Equal(t, 0, book.PublicationYear)
}

func TestCatalogService_Lookup_NotFound(t *testing.T) {
	svc := setupCatalogTest(t)

	_, err := svc.Lookup(context.Background(), "9781111111111")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCatalogService_Lookup_EmptyISBN(t *testing.T) {
	svc := setupCatalogTest(t)

	_, err := svc.Lookup(context.Background(), "  - ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestCatalogService_Lookup_UpstreamFailure(t *testing.T) {
	svc := setupCatalogTest(t)

	_, err := svc.Lookup(context.Background(), "9991111111111")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUpstream))
}

func TestCatalogService_LookupMany(t *testing.T) {
	svc := setupCatalogTest(t)

	results := svc.LookupMany(context.Background(), []string{
		"978-0-06-051275-7", // found
		"9781111111111",     // not in the catalog
		"9991111111111",     // upstream failure
		"9780743273565",     // found
	})
	require.Len(t, results, 4)

	// Results come back in input order regardless of completion order
	assert.Equal(t, LookupFound, results[0].Status)
	assert.Equal(t, "The Dispossessed", results[0].Book.Title)

	assert.Equal(t, LookupNotFound, results[1].Status)
	assert.Nil(t, results[1].Book)

	// Each result is tagged with the string as submitted, not the
	// sanitized query form, so rows map back to the user's input.
	assert.Equal(t, "978-0-06-051275-7", results[0].ISBN)
	assert.Equal(t, "9781111111111", results[1].ISBN)

	assert.Equal(t, LookupFailed, results[2].Status)
	assert.NotEmpty(t, results[2].Error)

	assert.Equal(t, LookupFound, results[3].Status)
	assert.Equal(t, "A Short History of Nearly Everything", results[3].Book.Title)
}

func TestCatalogService_LookupMany_NotFoundKeepsRawISBN(t *testing.T) {
	svc := setupCatalogTest(t)

	results := svc.LookupMany(context.Background(), []string{"978-1-111-11111-1"})
	require.Len(t, results, 1)

	assert.Equal(t, LookupNotFound, results[0].Status)
	assert.Equal(t, "978-1-111-11111-1", results[0].ISBN)
}

func TestCatalogService_LookupMany_Empty(t *testing.T) {
	svc := setupCatalogTest(t)

	results := svc.LookupMany(context.Background(), nil)
	assert.Empty(t, results)
}
