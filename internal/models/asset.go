package models

import "time"

// Asset classes
const (
	AssetClassCrypto = "crypto"
	AssetClassStock  = "stock"
)

// PriceAsset is the stored price record for one watched symbol.
// PreviousPrice is only advanced when a sync successfully fetches a
// newer price; LastUpdated increases monotonically per symbol.
type PriceAsset struct {
	Symbol           string    `json:"symbol" db:"symbol"`
	Name             string    `json:"name" db:"name"`
	AssetClass       string    `json:"assetClass" db:"asset_class"`
	CurrentPrice     float64   `json:"currentPrice" db:"current_price"`
	PreviousPrice    float64   `json:"previousPrice" db:"previous_price"`
	PercentChange24h float64   `json:"percentChange24h" db:"percent_change_24h"`
	LastUpdated      time.Time `json:"lastUpdated" db:"last_updated"`
}

// PercentChange computes the relative change from previous to current,
// guarding the previous == 0 case as 0% rather than dividing by zero.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
