// Package main provides a tool to seed the database with demo reading data.
//
// It creates a demo user if the database is empty, then fills the log
// with a couple of reading years to exercise stats and ordering.
//
// Usage:
//
//	DB_PATH=~/Paperlog/data/db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/paperlog/paperlog-server/internal/auth"
	"github.com/paperlog/paperlog-server/internal/domain"
	"github.com/paperlog/paperlog-server/internal/id"
	"github.com/paperlog/paperlog-server/internal/service"
	"github.com/paperlog/paperlog-server/internal/store"
	"github.com/paperlog/paperlog-server/internal/validation"
)

var (
	email    = flag.String("email", "demo@paperlog.local", "Email for the demo user")
	password = flag.String("password", "DemoPassword123!", "Password for the demo user")
)

type seedBook struct {
	title, author, genre, country string
	fiction                       bool
	pages, pubYear, year, month   int
}

var seedBooks = []seedBook{
	{"The Dispossessed", "Ursula K. Le Guin", "Science Fiction", "United States", true, 387, 1974, 2024, 1},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "Science Fiction", "United States", true, 304, 1969, 2024, 2},
	{"A Short History of Nearly Everything", "Bill Bryson", "Science", "United States", false, 544, 2003, 2024, 3},
	{"Piranesi", "Susanna Clarke", "Fantasy", "United Kingdom", true, 245, 2020, 2024, 5},
	{"The Remains of the Day", "Kazuo Ishiguro", "Literary", "United Kingdom", true, 258, 1989, 2024, 7},
	{"Sapiens", "Yuval Noah Harari", "History", "Israel", false, 443, 2011, 2023, 2},
	{"The Name of the Rose", "Umberto Eco", "Mystery", "Italy", true, 536, 1980, 2023, 4},
	{"Thinking, Fast and Slow", "Daniel Kahneman", "Psychology", "Israel", false, 499, 2011, 2023, 8},
	{"Kafka on the Shore", "Haruki Murakami", "Magical Realism", "Japan", true, 505, 2002, 2023, 11},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Paperlog/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.DiscardHandler)

	s, err := store.New(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to prepare user: %v", err)
	}
	fmt.Printf("Seeding readings for %s (%s)\n", user.Name(), user.ID)

	readingService := service.NewReadingService(s, validation.New(), logger)

	reqs := make([]service.AddReadingRequest, len(seedBooks))
	for i, b := range seedBooks {
		reqs[i] = service.AddReadingRequest{
			Title:           b.title,
			Author:          b.author,
			IsFiction:       b.fiction,
			Genre:           b.genre,
			PageCount:       b.pages,
			PublicationYear: b.pubYear,
			Country:         b.country,
			Year:            b.year,
			Month:           b.month,
		}
	}

	readings, err := readingService.AddBatch(ctx, user.ID, reqs)
	if err != nil {
		log.Fatalf("Failed to seed readings: %v", err)
	}

	fmt.Printf("Created %d readings\n", len(readings))
}

// ensureUser returns the existing account or creates the demo user.
func ensureUser(ctx context.Context, s *store.Store) (*domain.User, error) {
	hasUsers, err := s.HasUsers(ctx)
	if err != nil {
		return nil, err
	}

	if hasUsers {
		return s.GetUserByEmail(ctx, *email)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        *email,
		PasswordHash: hash,
		DisplayName:  "Demo Reader",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	fmt.Printf("Created demo user %s / %s\n", *email, *password)
	return user, nil
}
