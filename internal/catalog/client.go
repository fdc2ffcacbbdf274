// Package catalog looks up book metadata by ISBN against the Google
// Books volumes API.
package catalog

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrVolumeNotFound is returned when the catalog has no entry for an ISBN.
var ErrVolumeNotFound = errors.New("volume not found")

// Client provides rate-limited access to the Google Books volumes API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new catalog client. An empty apiKey is valid;
// unauthenticated lookups run at a lower quota.
func NewClient(baseURL, apiKey string, requestsPerSecond int, logger *slog.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:      logger,
	}
}

// LookupISBN fetches the first catalog volume matching the ISBN.
// Returns ErrVolumeNotFound when the catalog has no entry.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Volume, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", "isbn:"+isbn)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	lookupURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("catalog lookup",
		"isbn", isbn,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup failed: status %d", resp.StatusCode)
	}

	var volumes volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumes); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("catalog lookup results",
		"isbn", isbn,
		"count", volumes.TotalItems,
	)

	if len(volumes.Items) == 0 {
		return nil, ErrVolumeNotFound
	}

	info := volumes.Items[0].VolumeInfo
	v := &Volume{
		Title:         info.Title,
		Authors:       info.Authors,
		Categories:    info.Categories,
		PageCount:     info.PageCount,
		PublishedDate: info.PublishedDate,
	}
	if info.ImageLinks != nil {
		v.Thumbnail = info.ImageLinks.Thumbnail
		if v.Thumbnail == "" {
			v.Thumbnail = info.ImageLinks.SmallThumbnail
		}
	}
	return v, nil
}

// PlaceholderCoverURL builds a generated cover for books without catalog
// artwork. Title words become the placeholder text.
func PlaceholderCoverURL(title string) string {
	words := strings.Fields(title)
	text := strings.Join(words, "+")
	if text == "" {
		text = "Book"
	}
	return "https://placehold.co/128x192/1f2937/ffffff?text=" + text
}
