// Package book holds the book domain model and the repository that reconciles
// the remote catalog with the local favorites store.
package book

// Book is the internal book model shared by every screen and the HTTP API.
// Description stays nil until the details have been fetched.
type Book struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ImageURL         string   `json:"image_url"`
	Authors          []string `json:"authors"`
	Description      *string  `json:"description,omitempty"`
	Languages        []string `json:"languages"`
	FirstPublishYear string   `json:"first_publish_year,omitempty"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	RatingCount      *int     `json:"rating_count,omitempty"`
	NumPages         *int     `json:"num_pages,omitempty"`
	NumEditions      int      `json:"num_editions"`
}

// WithDescription returns a copy of b carrying the given description.
func (b Book) WithDescription(description *string) Book {
	b.Authors = cloneStrings(b.Authors)
	b.Languages = cloneStrings(b.Languages)
	b.Description = description
	return b
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
