package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/paperlog/paperlog-server/internal/domain"
	"github.com/paperlog/paperlog-server/internal/genre"
	"github.com/paperlog/paperlog-server/internal/store"
)

// topAuthorLimit caps the top-author list.
const topAuthorLimit = 10

// StatsService computes reading statistics as a pure projection over a
// user's records. Chart rendering stays client-side; we only expose the
// numbers.
type StatsService struct {
	store      *store.Store
	yearlyGoal int
	logger     *slog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(store *store.Store, yearlyGoal int, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:      store,
		yearlyGoal: yearlyGoal,
		logger:     logger,
	}
}

// Compute builds the full statistics projection for one period.
func (s *StatsService) Compute(ctx context.Context, userID string, period domain.Period) (*domain.Stats, error) {
	all, err := s.store.ListReadingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	records := all
	if !period.IsAllTime() {
		records = slices.DeleteFunc(slices.Clone(all), func(r domain.Reading) bool {
			return r.ReadYear != period.Year()
		})
	}

	stats := &domain.Stats{
		Period:     period.String(),
		TotalBooks: len(records),
		YearlyGoal: s.yearlyGoal,
	}

	fictionGenres := map[string]*domain.GenreCount{}
	nonFictionGenres := map[string]*domain.GenreCount{}
	authors := map[string]int{}
	decades := map[string]int{}
	countries := map[string]int{}

	knownPages := 0
	knownPageBooks := 0

	for i := range records {
		r := &records[i]

		if r.PageCount > 0 {
			stats.TotalPages += r.PageCount
			knownPages += r.PageCount
			knownPageBooks++

			ref := &domain.BookRef{
				ID:        r.ID,
				Title:     r.Title,
				Author:    r.Author,
				PageCount: r.PageCount,
			}
			if stats.Shortest == nil || r.PageCount < stats.Shortest.PageCount {
				stats.Shortest = ref
			}
			if stats.Longest == nil || r.PageCount > stats.Longest.PageCount {
				stats.Longest = ref
			}
		}

		buckets := nonFictionGenres
		if r.IsFiction {
			stats.FictionCount++
			buckets = fictionGenres
		} else {
			stats.NonFictionCount++
		}
		slug := genre.Slugify(r.Genre)
		if bucket, ok := buckets[slug]; ok {
			bucket.Count++
		} else {
			buckets[slug] = &domain.GenreCount{Slug: slug, Genre: r.Genre, Count: 1}
		}

		authors[r.Author]++

		if r.PublicationYear > 0 {
			decade := fmt.Sprintf("%ds", r.PublicationYear/10*10)
			decades[decade]++
		}
		if country := strings.TrimSpace(r.Country); country != "" {
			countries[country]++
		}
	}

	if knownPageBooks > 0 {
		stats.AveragePages = knownPages / knownPageBooks
	}

	stats.FictionGenres = sortedGenreCounts(fictionGenres)
	stats.NonFictionGenres = sortedGenreCounts(nonFictionGenres)
	stats.TopAuthors = topAuthors(authors)
	stats.UniqueAuthors = len(authors)
	stats.ByDecade = sortedDecades(decades)
	stats.ByCountry = sortedCountries(countries)

	if !period.IsAllTime() {
		stats.Monthly = monthlyActivity(records)
	}

	return stats, nil
}

// AvailableYears lists the years a user has readings in, newest first.
// The current year is always present so the client can offer it as a
// target even before the first book of the year is logged.
func (s *StatsService) AvailableYears(ctx context.Context, userID string) ([]int, error) {
	records, err := s.store.ListReadingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	seen := map[int]bool{time.Now().Year(): true}
	for i := range records {
		seen[records[i].ReadYear] = true
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })

	return years, nil
}

// monthlyActivity tallies books and pages per month. Records are
// already filtered to a single year.
func monthlyActivity(records []domain.Reading) *domain.MonthlyActivity {
	var activity domain.MonthlyActivity
	for i := range records {
		r := &records[i]
		if r.ReadDate.IsZero() {
			continue
		}
		month := int(r.ReadDate.Month()) - 1
		activity.Books[month]++
		activity.Pages[month] += r.PageCount
	}
	return &activity
}

func sortedGenreCounts(buckets map[string]*domain.GenreCount) []domain.GenreCount {
	counts := make([]domain.GenreCount, 0, len(buckets))
	for _, bucket := range buckets {
		counts = append(counts, *bucket)
	}
	slices.SortFunc(counts, func(a, b domain.GenreCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return counts
}

func topAuthors(tallies map[string]int) []domain.AuthorCount {
	counts := make([]domain.AuthorCount, 0, len(tallies))
	for author, count := range tallies {
		counts = append(counts, domain.AuthorCount{Author: author, Count: count})
	}
	slices.SortFunc(counts, func(a, b domain.AuthorCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Author, b.Author)
	})
	if len(counts) > topAuthorLimit {
		counts = counts[:topAuthorLimit]
	}
	return counts
}

func sortedDecades(tallies map[string]int) []domain.DecadeCount {
	counts := make([]domain.DecadeCount, 0, len(tallies))
	for decade, count := range tallies {
		counts = append(counts, domain.DecadeCount{Decade: decade, Count: count})
	}
	slices.SortFunc(counts, func(a, b domain.DecadeCount) int {
		return strings.Compare(a.Decade, b.Decade)
	})
	return counts
}

func sortedCountries(tallies map[string]int) []domain.CountryCount {
	counts := make([]domain.CountryCount, 0, len(tallies))
	for country, count := range tallies {
		counts = append(counts, domain.CountryCount{Country: country, Count: count})
	}
	slices.SortFunc(counts, func(a, b domain.CountryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Country, b.Country)
	})
	return counts
}
