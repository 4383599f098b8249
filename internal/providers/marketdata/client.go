// internal/providers/marketdata/client.go
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"finsync-workers/internal/common/config"
	stderrors "finsync-workers/internal/common/errors"
	"finsync-workers/internal/common/httpclient"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited signals the provider returned a rate-limit response;
// the affected symbol is skipped for the current run.
var ErrRateLimited = errors.New("market data provider rate limited")

// Client fetches quotes from the market data provider. Responses are
// cached briefly in Redis to stay under the provider's rate limits when
// runs overlap.
type Client struct {
	httpClient *httpclient.Client
	cache      *redis.Client
	cfg        config.MarketDataConfig
	logger     logger.Logger
}

func NewClient(cfg config.MarketDataConfig, cache *redis.Client, log logger.Logger) *Client {
	return &Client{
		httpClient: httpclient.NewClient(cfg.Timeout),
		cache:      cache,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"provider": "marketdata"}),
	}
}

// Quote returns the current quote for a symbol of the given asset class.
func (c *Client) Quote(ctx context.Context, symbol, assetClass string) (*Quote, error) {
	cacheKey := "quote:" + symbol

	if c.cache != nil {
		if val, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var q Quote
			if err := json.Unmarshal([]byte(val), &q); err == nil {
				return &q, nil
			}
		}
	}

	base := c.cfg.StockBaseURL
	if assetClass == models.AssetClassCrypto {
		base = c.cfg.CryptoBaseURL
	}

	reqURL := fmt.Sprintf("%s/quote?symbol=%s&apikey=%s",
		base, url.QueryEscape(symbol), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}

	quote, err := c.validate(symbol, &payload)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			c.cache.Set(ctx, cacheKey, data, c.cfg.QuoteCacheTTL)
		}
	}

	return quote, nil
}

// validate rejects partial or malformed payloads at the boundary.
func (c *Client) validate(symbol string, p *quotePayload) (*Quote, error) {
	if p.Price == nil || *p.Price <= 0 {
		return nil, stderrors.NewPayloadInvalidError(
			fmt.Sprintf("symbol %s: missing or non-positive price", symbol))
	}

	q := &Quote{
		Symbol:           symbol,
		Price:            *p.Price,
		PercentChange24h: p.ChangePercent24h,
	}
	if p.Name != nil {
		q.Name = *p.Name
	}
	return q, nil
}
