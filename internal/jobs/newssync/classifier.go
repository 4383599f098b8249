// internal/jobs/newssync/classifier.go
package newssync

import (
	"strings"

	"finsync-workers/internal/models"
)

// cryptoSources are outlets that publish crypto coverage exclusively.
// Matching here wins over every other rule, so a CoinDesk piece tagged
// "business" by the provider still lands in the crypto bucket.
var cryptoSources = map[string]struct{}{
	"coindesk":         {},
	"cointelegraph":    {},
	"decrypt":          {},
	"the block":        {},
	"bitcoin magazine": {},
	"cryptoslate":      {},
	"bitcoinist":       {},
	"newsbtc":          {},
	"crypto briefing":  {},
	"u.today":          {},
}

// cryptoKeywords mark an item as crypto when they appear in the
// headline or the provider's category text.
var cryptoKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth ", "crypto", "blockchain",
	"defi", "nft", "altcoin", "stablecoin", "binance", "coinbase",
	"solana", "xrp", "dogecoin", "web3", "token sale", "memecoin",
}

// providerCategoryMap translates provider category labels that carry a
// clear signal on their own.
var providerCategoryMap = map[string]models.NewsCategory{
	"cryptocurrency":   models.CategoryCrypto,
	"crypto":           models.CategoryCrypto,
	"digital-currency": models.CategoryCrypto,
	"blockchain":       models.CategoryCrypto,
	"business":         models.CategoryStocks,
	"markets":          models.CategoryStocks,
	"earnings":         models.CategoryStocks,
	"economy":          models.CategoryStocks,
	"finance":          models.CategoryStocks,
	"technology":       models.CategoryStocks,
	"general":          models.CategoryStocks,
}

// Classify maps an article onto a canonical category. Rules apply in
// order: crypto source allow-list, crypto keyword match, provider
// category table, then the stocks default.
func Classify(source, headline, providerCategory string) models.NewsCategory {
	src := strings.ToLower(strings.TrimSpace(source))
	if _, ok := cryptoSources[src]; ok {
		return models.CategoryCrypto
	}

	text := strings.ToLower(headline + " " + providerCategory)
	for _, kw := range cryptoKeywords {
		if strings.Contains(text, kw) {
			return models.CategoryCrypto
		}
	}

	if cat, ok := providerCategoryMap[strings.ToLower(strings.TrimSpace(providerCategory))]; ok {
		return cat
	}
	return models.CategoryStocks
}
