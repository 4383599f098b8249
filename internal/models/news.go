package models

import "time"

// NewsCategory is the canonical internal category of a news item.
type NewsCategory string

const (
	CategoryStocks NewsCategory = "stocks"
	CategoryCrypto NewsCategory = "crypto"
)

// NewsRetention is how long items stay stored before the sync job
// prunes them.
const NewsRetention = 24 * time.Hour

// NewsItem is a persisted article, keyed by the provider-assigned id.
type NewsItem struct {
	ID          string       `json:"id" db:"id"`
	Headline    string       `json:"headline" db:"headline"`
	Summary     string       `json:"summary" db:"summary"`
	URL         string       `json:"url" db:"url"`
	Source      string       `json:"source" db:"source"`
	ImageURL    string       `json:"imageUrl,omitempty" db:"image_url"`
	PublishedAt time.Time    `json:"publishedAt" db:"published_at"`
	Category    NewsCategory `json:"category" db:"category"`
}
