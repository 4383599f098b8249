// internal/jobs/newssync/classifier_test.go
package newssync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finsync-workers/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		source           string
		headline         string
		providerCategory string
		want             models.NewsCategory
	}{
		{
			name:             "crypto source wins over stocks provider category",
			source:           "CoinDesk",
			headline:         "Markets open higher",
			providerCategory: "business",
			want:             models.CategoryCrypto,
		},
		{
			name:     "crypto source matched case-insensitively",
			source:   "COINTELEGRAPH",
			headline: "Daily roundup",
			want:     models.CategoryCrypto,
		},
		{
			name:     "crypto keyword in headline",
			source:   "Reuters",
			headline: "Bitcoin surges past resistance",
			want:     models.CategoryCrypto,
		},
		{
			name:             "crypto keyword in provider category text",
			source:           "Reuters",
			headline:         "Exchange volumes climb",
			providerCategory: "blockchain-news",
			want:             models.CategoryCrypto,
		},
		{
			name:             "provider category table maps cryptocurrency",
			source:           "Bloomberg",
			headline:         "Regulation update expected",
			providerCategory: "cryptocurrency",
			want:             models.CategoryCrypto,
		},
		{
			name:             "provider category table maps business to stocks",
			source:           "Bloomberg",
			headline:         "Quarterly results beat estimates",
			providerCategory: "business",
			want:             models.CategoryStocks,
		},
		{
			name:     "no signal defaults to stocks",
			source:   "Some Wire",
			headline: "Company announces new product",
			want:     models.CategoryStocks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.source, tt.headline, tt.providerCategory)
			assert.Equal(t, tt.want, got)
		})
	}
}
