// internal/providers/marketdata/client_test.go
package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/common/config"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
)

func testConfig(baseURL string) config.MarketDataConfig {
	return config.MarketDataConfig{
		CryptoBaseURL: baseURL,
		StockBaseURL:  baseURL,
		APIKey:        "test-key",
		Timeout:       5 * time.Second,
		QuoteCacheTTL: time.Minute,
	}
}

func TestClient_Quote_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTC", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":               "Bitcoin",
			"price":              64000.5,
			"change_percent_24h": 2.3,
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewTestLogger(t))
	quote, err := client.Quote(context.Background(), "BTC", models.AssetClassCrypto)
	require.NoError(t, err)

	assert.Equal(t, "BTC", quote.Symbol)
	assert.Equal(t, "Bitcoin", quote.Name)
	assert.Equal(t, 64000.5, quote.Price)
	require.NotNil(t, quote.PercentChange24h)
	assert.Equal(t, 2.3, *quote.PercentChange24h)
}

func TestClient_Quote_CacheHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	cached, err := json.Marshal(Quote{Symbol: "BTC", Name: "Bitcoin", Price: 64000.5})
	require.NoError(t, err)
	mock.ExpectGet("quote:BTC").SetVal(string(cached))

	// No HTTP server: a cached quote must never reach the provider.
	client := NewClient(testConfig("http://127.0.0.1:0"), rdb, logger.NewTestLogger(t))
	quote, err := client.Quote(context.Background(), "BTC", models.AssetClassCrypto)
	require.NoError(t, err)

	assert.Equal(t, 64000.5, quote.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Quote_CacheMissPopulatesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Bitcoin","price":64000.5}`))
	}))
	defer server.Close()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("quote:BTC").RedisNil()

	expected, err := json.Marshal(Quote{Symbol: "BTC", Name: "Bitcoin", Price: 64000.5})
	require.NoError(t, err)
	mock.ExpectSet("quote:BTC", expected, time.Minute).SetVal("OK")

	client := NewClient(testConfig(server.URL), rdb, logger.NewTestLogger(t))
	quote, err := client.Quote(context.Background(), "BTC", models.AssetClassCrypto)
	require.NoError(t, err)

	assert.Equal(t, 64000.5, quote.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Quote_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewTestLogger(t))
	_, err := client.Quote(context.Background(), "BTC", models.AssetClassCrypto)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestClient_Quote_RejectsMissingOrNonPositivePrice(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing price", `{"name":"Bitcoin"}`},
		{"zero price", `{"name":"Bitcoin","price":0}`},
		{"negative price", `{"name":"Bitcoin","price":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), nil, logger.NewTestLogger(t))
			_, err := client.Quote(context.Background(), "BTC", models.AssetClassCrypto)
			assert.Error(t, err)
		})
	}
}

func TestClient_Quote_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewTestLogger(t))
	_, err := client.Quote(context.Background(), "AAPL", models.AssetClassStock)
	assert.Error(t, err)
}
