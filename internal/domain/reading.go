package domain

import "time"

// ReadDay is the day-of-month stand-in used for every read date. Users
// record the month a book was finished, not the exact day, so all read
// dates land mid-month to keep ordering stable across timezones.
const ReadDay = 15

// Reading represents a single finished book in a user's log.
type Reading struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	IsFiction       bool      `json:"is_fiction"`
	Genre           string    `json:"genre"`
	PageCount       int       `json:"page_count"`       // 0 = unknown
	PublicationYear int       `json:"publication_year"` // 0 = unknown
	CoverURL        string    `json:"cover_url"`
	Country         string    `json:"country"`
	ISBN            string    `json:"isbn,omitempty"` // empty for manual entries

	// ReadYear duplicates ReadDate.Year() for cheap per-year filtering.
	// Every write path keeps the two in lockstep.
	ReadYear int       `json:"read_year"`
	ReadDate time.Time `json:"read_date"`

	// OrderIndex establishes the manual sequence within a reading year.
	// Nil means the record has no manual position yet.
	OrderIndex *int64 `json:"order_index,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReadDateFor builds the canonical read date for a year and month (1-12).
func ReadDateFor(year int, month time.Month) time.Time {
	return time.Date(year, month, ReadDay, 0, 0, 0, 0, time.UTC)
}

// SetReadDate moves the reading to a new year and month, keeping
// ReadYear consistent with ReadDate.
func (r *Reading) SetReadDate(year int, month time.Month) {
	r.ReadDate = ReadDateFor(year, month)
	r.ReadYear = year
}

// Touch updates the UpdatedAt timestamp to the current time.
func (r *Reading) Touch() {
	r.UpdatedAt = time.Now()
}
