package domain

// BookRef is a lightweight reference to a reading used in stat callouts.
type BookRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	PageCount int    `json:"page_count"`
}

// GenreCount is a per-genre tally. Slug is the stable bucket key, Genre
// the display label of the first record encountered for the bucket.
type GenreCount struct {
	Slug  string `json:"slug"`
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// AuthorCount is a per-author tally.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// DecadeCount tallies books by publication decade ("1990s").
// Books with an unknown publication year are excluded.
type DecadeCount struct {
	Decade string `json:"decade"`
	Count  int    `json:"count"`
}

// CountryCount tallies books by author country. Empty countries are
// excluded.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// MonthlyActivity holds per-month tallies for a specific year.
// Index 0 is January.
type MonthlyActivity struct {
	Books [12]int `json:"books"`
	Pages [12]int `json:"pages"`
}

// Stats is the full statistics projection for one period of a user's log.
type Stats struct {
	Period     string `json:"period"`
	TotalBooks int    `json:"total_books"`
	TotalPages int    `json:"total_pages"`

	// AveragePages is computed over books with a known page count only.
	AveragePages int      `json:"average_pages"`
	Shortest     *BookRef `json:"shortest,omitempty"`
	Longest      *BookRef `json:"longest,omitempty"`

	FictionCount    int `json:"fiction_count"`
	NonFictionCount int `json:"non_fiction_count"`

	FictionGenres    []GenreCount `json:"fiction_genres"`
	NonFictionGenres []GenreCount `json:"non_fiction_genres"`

	TopAuthors    []AuthorCount `json:"top_authors"`
	UniqueAuthors int           `json:"unique_authors"`

	// Monthly is only populated for a specific-year period.
	Monthly *MonthlyActivity `json:"monthly,omitempty"`

	ByDecade  []DecadeCount  `json:"by_decade"`
	ByCountry []CountryCount `json:"by_country"`

	// YearlyGoal is the configured reading target in books per year.
	YearlyGoal int `json:"yearly_goal"`
}
