// internal/providers/newsapi/models.go
package newsapi

import "time"

// Article is one fetched item after defensive decoding. Optional
// provider fields that were absent stay empty; PublishedAt is nil when
// the provider sent no usable timestamp.
type Article struct {
	ID          string
	Headline    string
	Summary     string
	URL         string
	Source      string
	ImageURL    string
	PublishedAt *time.Time
	RawCategory string
}

// apiResponse is the raw provider envelope.
type apiResponse struct {
	Articles []articlePayload `json:"articles"`
}

// articlePayload is the raw provider article shape; every field is
// optional and validated before use.
type articlePayload struct {
	ID          *string `json:"id"`
	Headline    *string `json:"headline"`
	Summary     *string `json:"summary"`
	URL         *string `json:"url"`
	Source      *string `json:"source"`
	ImageURL    *string `json:"image_url"`
	PublishedAt *string `json:"published_at"`
	Category    *string `json:"category"`
}
