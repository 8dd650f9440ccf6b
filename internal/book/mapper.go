package book

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrlokans/bookie/internal/entities"
	"github.com/mrlokans/bookie/internal/openlibrary"
)

const coversBaseURL = "https://covers.openlibrary.org/b"

// FromSearchedBook maps a search document to a Book. The description is
// not part of search results and stays nil.
func FromSearchedBook(dto openlibrary.SearchedBook) Book {
	b := Book{
		ID:            workID(dto.Key),
		Title:         dto.Title,
		ImageURL:      coverURL(dto),
		Authors:       cloneStrings(dto.AuthorNames),
		Languages:     cloneStrings(dto.Languages),
		AverageRating: dto.RatingsAverage,
		RatingCount:   dto.RatingsCount,
		NumPages:      dto.NumPagesMedian,
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Languages == nil {
		b.Languages = []string{}
	}
	if dto.FirstPublishYear != nil {
		b.FirstPublishYear = strconv.Itoa(*dto.FirstPublishYear)
	}
	if dto.NumEditions != nil {
		b.NumEditions = *dto.NumEditions
	}
	return b
}

// ToEntity maps a Book to its favorite row.
func ToEntity(b Book) *entities.FavoriteBook {
	return &entities.FavoriteBook{
		ID:               b.ID,
		Title:            b.Title,
		Description:      b.Description,
		ImageURL:         b.ImageURL,
		Languages:        cloneStrings(b.Languages),
		FirstPublishYear: b.FirstPublishYear,
		RatingsAverage:   b.AverageRating,
		RatingsCount:     b.RatingCount,
		NumPagesMedian:   b.NumPages,
		NumEditions:      b.NumEditions,
		Authors:          cloneStrings(b.Authors),
	}
}

// FromEntity maps a favorite row back to a Book.
func FromEntity(e entities.FavoriteBook) Book {
	b := Book{
		ID:               e.ID,
		Title:            e.Title,
		ImageURL:         e.ImageURL,
		Authors:          cloneStrings(e.Authors),
		Description:      e.Description,
		Languages:        cloneStrings(e.Languages),
		FirstPublishYear: e.FirstPublishYear,
		AverageRating:    e.RatingsAverage,
		RatingCount:      e.RatingsCount,
		NumPages:         e.NumPagesMedian,
		NumEditions:      e.NumEditions,
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Languages == nil {
		b.Languages = []string{}
	}
	return b
}

// workID strips the "/works/" prefix from an OpenLibrary key.
func workID(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func coverURL(dto openlibrary.SearchedBook) string {
	if dto.CoverKey != "" {
		return fmt.Sprintf("%s/olid/%s-L.jpg", coversBaseURL, dto.CoverKey)
	}
	if dto.CoverAlternativeKey != nil {
		return fmt.Sprintf("%s/id/%d-L.jpg", coversBaseURL, *dto.CoverAlternativeKey)
	}
	return ""
}
