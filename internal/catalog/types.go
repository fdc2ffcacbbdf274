package catalog

// Volume is the normalized shape of a catalog entry returned by a lookup.
type Volume struct {
	Title         string
	Authors       []string
	Categories    []string
	PageCount     int
	PublishedDate string
	Thumbnail     string
}

// volumesResponse mirrors the Google Books volumes list payload.
type volumesResponse struct {
	TotalItems int           `json:"totalItems"`
	Items      []volumeEntry `json:"items"`
}

type volumeEntry struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Categories    []string    `json:"categories"`
	PageCount     int         `json:"pageCount"`
	PublishedDate string      `json:"publishedDate"`
	ImageLinks    *imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
