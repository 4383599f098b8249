// internal/providers/marketdata/models.go
package marketdata

// Quote is a validated quote for one symbol.
type Quote struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	PercentChange24h *float64 `json:"percentChange24h,omitempty"`
}

// quotePayload is the raw provider shape. Every field is optional and
// validated before use; providers occasionally return partial payloads.
type quotePayload struct {
	Symbol           *string  `json:"symbol"`
	Name             *string  `json:"name"`
	Price            *float64 `json:"price"`
	ChangePercent24h *float64 `json:"change_percent_24h"`
}
