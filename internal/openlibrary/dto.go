package openlibrary

import (
	"encoding/json"
	"fmt"
)

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int            `json:"numFound"`
	Docs     []SearchedBook `json:"docs"`
}

// SearchedBook is a single search.json document. Only the fields requested
// through the fields= parameter are populated.
type SearchedBook struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	Languages           []string `json:"language"`
	CoverAlternativeKey *int     `json:"cover_i"`
	AuthorKeys          []string `json:"author_key"`
	AuthorNames         []string `json:"author_name"`
	CoverKey            string   `json:"cover_edition_key"`
	FirstPublishYear    *int     `json:"first_publish_year"`
	RatingsAverage      *float64 `json:"ratings_average"`
	RatingsCount        *int     `json:"ratings_count"`
	NumPagesMedian      *int     `json:"number_of_pages_median"`
	NumEditions         *int     `json:"edition_count"`
}

// BookWork matches works/{id}.json.
type BookWork struct {
	Description *string `json:"-"`
}

// UnmarshalJSON accepts the description either as a plain string or as
// {"type": "/type/text", "value": "..."}.
func (w *BookWork) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Description) == 0 || string(raw.Description) == "null" {
		w.Description = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(raw.Description, &text); err == nil {
		w.Description = &text
		return nil
	}

	var typed struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(raw.Description, &typed); err != nil {
		return fmt.Errorf("decode description: %w", err)
	}
	w.Description = typed.Value
	return nil
}
