package entities

import "time"

// FavoriteBook is a book saved by the user. A row existing for an ID is what
// makes a book a favorite; there is no separate flag.
type FavoriteBook struct {
	ID               string    `gorm:"primaryKey;size:64" json:"id"`
	Title            string    `gorm:"index;size:512" json:"title"`
	Description      *string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL         string    `gorm:"size:2048" json:"image_url"`
	Languages        []string  `gorm:"serializer:json" json:"languages"`
	FirstPublishYear string    `gorm:"size:16" json:"first_publish_year,omitempty"`
	RatingsAverage   *float64  `json:"ratings_average,omitempty"`
	RatingsCount     *int      `json:"ratings_count,omitempty"`
	NumPagesMedian   *int      `json:"num_pages_median,omitempty"`
	NumEditions      int       `json:"num_editions"`
	Authors          []string  `gorm:"serializer:json" json:"authors"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
