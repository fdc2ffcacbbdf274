package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/paperlog/paperlog-server/internal/domain"
)

const (
	readingPrefix       = "reading:"
	readingByUserPrefix = "idx:readings:user:" // For listing a user's readings
)

var (
	// ErrReadingNotFound is returned when a reading cannot be found.
	ErrReadingNotFound = errors.New("reading not found")
	// ErrOrderMembershipChanged is returned when a reorder commit does not
	// exactly cover the year's current record set.
	ErrOrderMembershipChanged = errors.New("ordered ids do not match the year's readings")
)

// ReadDateUpdate is one item of a bulk read-date edit.
type ReadDateUpdate struct {
	ID    string
	Year  int
	Month time.Month
}

// CreateReading creates a single reading record.
func (s *Store) CreateReading(_ context.Context, reading *domain.Reading) error {
	key := []byte(readingPrefix + reading.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check reading exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists.WithMessage("reading already exists")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return putReading(txn, reading)
	})
}

// CreateReadings creates multiple readings in one atomic transaction.
// Either every record is written or none are.
func (s *Store) CreateReadings(_ context.Context, readings []*domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, reading := range readings {
			_, err := txn.Get([]byte(readingPrefix + reading.ID))
			if err == nil {
				return ErrAlreadyExists.WithMessage("reading already exists")
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check reading exists: %w", err)
			}

			if err := putReading(txn, reading); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReading retrieves a reading by ID.
func (s *Store) GetReading(_ context.Context, id string) (*domain.Reading, error) {
	key := []byte(readingPrefix + id)

	var reading domain.Reading
	if err := s.get(key, &reading); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("get reading: %w", err)
	}

	return &reading, nil
}

// UpdateReading replaces an existing reading record.
func (s *Store) UpdateReading(ctx context.Context, reading *domain.Reading) error {
	existing, err := s.GetReading(ctx, reading.ID)
	if err != nil {
		return err
	}
	if existing.UserID != reading.UserID {
		return ErrForbidden.WithMessage("reading belongs to another user")
	}

	reading.Touch()

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(reading)
		if err != nil {
			return fmt.Errorf("marshal reading: %w", err)
		}
		return txn.Set([]byte(readingPrefix+reading.ID), data)
	})
}

// DeleteReading deletes a reading. Idempotent.
func (s *Store) DeleteReading(_ context.Context, id string) error {
	key := []byte(readingPrefix + id)

	var reading domain.Reading
	if err := s.get(key, &reading); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get reading for deletion: %w", err)
	}

	userIndexKey := []byte(readingByUserPrefix + reading.UserID + ":" + id)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete(userIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// ListReadingsForUser returns every reading owned by the user.
func (s *Store) ListReadingsForUser(_ context.Context, userID string) ([]domain.Reading, error) {
	var readings []domain.Reading

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		readings, err = listUserReadings(txn, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	return readings, nil
}

// SetReadingOrder rewrites the order indexes of a year's readings in one
// atomic transaction. The ordered ids must exactly cover the user's
// readings for that year; membership divergence (a concurrent add or
// delete) rejects the whole commit with ErrOrderMembershipChanged.
func (s *Store) SetReadingOrder(_ context.Context, userID string, year int, orderedIDs []string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		current, err := listUserReadings(txn, userID)
		if err != nil {
			return err
		}

		yearSet := make(map[string]*domain.Reading)
		for i := range current {
			if current[i].ReadYear == year {
				yearSet[current[i].ID] = &current[i]
			}
		}

		if len(orderedIDs) != len(yearSet) {
			return ErrOrderMembershipChanged
		}
		seen := make(map[string]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if seen[id] {
				return ErrOrderMembershipChanged
			}
			seen[id] = true
			if _, ok := yearSet[id]; !ok {
				return ErrOrderMembershipChanged
			}
		}

		for position, id := range orderedIDs {
			reading := yearSet[id]
			index := int64(position)
			reading.OrderIndex = &index
			reading.Touch()

			data, err := json.Marshal(reading)
			if err != nil {
				return fmt.Errorf("marshal reading: %w", err)
			}
			if err := txn.Set([]byte(readingPrefix+reading.ID), data); err != nil {
				return err
			}
		}

		return nil
	})
}

// BulkUpdateReadDates moves multiple readings to new year/month values in
// one atomic transaction. All records must exist and belong to the user.
func (s *Store) BulkUpdateReadDates(_ context.Context, userID string, updates []ReadDateUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, update := range updates {
			item, err := txn.Get([]byte(readingPrefix + update.ID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrReadingNotFound
			}
			if err != nil {
				return fmt.Errorf("get reading: %w", err)
			}

			var reading domain.Reading
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &reading)
			})
			if err != nil {
				return fmt.Errorf("unmarshal reading: %w", err)
			}

			if reading.UserID != userID {
				return ErrForbidden.WithMessage("reading belongs to another user")
			}

			reading.SetReadDate(update.Year, update.Month)
			reading.Touch()

			data, err := json.Marshal(&reading)
			if err != nil {
				return fmt.Errorf("marshal reading: %w", err)
			}
			if err := txn.Set([]byte(readingPrefix+reading.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// putReading writes a reading and its user index within a transaction.
func putReading(txn *badger.Txn, reading *domain.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	if err := txn.Set([]byte(readingPrefix+reading.ID), data); err != nil {
		return err
	}

	userIndexKey := []byte(readingByUserPrefix + reading.UserID + ":" + reading.ID)
	return txn.Set(userIndexKey, []byte{})
}

// listUserReadings loads a user's readings inside an open transaction so
// batch rewrites see a consistent snapshot.
func listUserReadings(txn *badger.Txn, userID string) ([]domain.Reading, error) {
	prefix := []byte(readingByUserPrefix + userID + ":")

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false // Only keys needed

	it := txn.NewIterator(opts)
	defer it.Close()

	var readings []domain.Reading
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		// Key format: idx:readings:user:userID:readingID
		key := string(it.Item().Key())
		readingID := key[strings.LastIndex(key, ":")+1:]

		item, err := txn.Get([]byte(readingPrefix + readingID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue // Stale index entry
		}
		if err != nil {
			return nil, fmt.Errorf("get reading: %w", err)
		}

		var reading domain.Reading
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &reading)
		})
		if err != nil {
			return nil, fmt.Errorf("unmarshal reading: %w", err)
		}

		readings = append(readings, reading)
	}

	return readings, nil
}
