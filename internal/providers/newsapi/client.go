// internal/providers/newsapi/client.go
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"finsync-workers/internal/common/config"
	"finsync-workers/internal/common/httpclient"
	"finsync-workers/internal/common/logger"
)

// ErrRateLimited signals the provider returned a rate-limit response;
// the affected category is skipped for the current run.
var ErrRateLimited = errors.New("news provider rate limited")

// Client fetches news articles by provider category.
type Client struct {
	httpClient *httpclient.Client
	cfg        config.NewsAPIConfig
	logger     logger.Logger
}

func NewClient(cfg config.NewsAPIConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: httpclient.NewClient(cfg.Timeout),
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"provider": "newsapi"}),
	}
}

// FetchCategory returns the articles the provider currently lists for
// one of its category strings.
func (c *Client) FetchCategory(ctx context.Context, category string) ([]Article, error) {
	reqURL := fmt.Sprintf("%s/articles?category=%s&apikey=%s",
		c.cfg.BaseURL, url.QueryEscape(category), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create news request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	return c.transform(category, apiResp.Articles), nil
}

// transform maps raw payloads to Articles, dropping entries that have
// no provider id to key on.
func (c *Client) transform(category string, payloads []articlePayload) []Article {
	articles := make([]Article, 0, len(payloads))

	for _, p := range payloads {
		if p.ID == nil || *p.ID == "" {
			c.logger.Warn("dropping article without provider id", map[string]interface{}{
				"category": category,
			})
			continue
		}

		a := Article{
			ID:          *p.ID,
			RawCategory: category,
		}
		if p.Category != nil && *p.Category != "" {
			a.RawCategory = *p.Category
		}
		if p.Headline != nil {
			a.Headline = *p.Headline
		}
		if p.Summary != nil {
			a.Summary = *p.Summary
		}
		if p.URL != nil {
			a.URL = *p.URL
		}
		if p.Source != nil {
			a.Source = *p.Source
		}
		if p.ImageURL != nil {
			a.ImageURL = *p.ImageURL
		}
		if p.PublishedAt != nil {
			if ts, err := time.Parse(time.RFC3339, *p.PublishedAt); err == nil {
				a.PublishedAt = &ts
			}
		}

		articles = append(articles, a)
	}

	return articles
}
