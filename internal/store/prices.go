// internal/store/prices.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finsync-workers/internal/models"
)

// PriceStore provides access to the popular-asset price records.
type PriceStore struct {
	db *sql.DB
}

func NewPriceStore(db *sql.DB) *PriceStore {
	return &PriceStore{db: db}
}

// Get returns the stored record for a symbol, or nil when the symbol
// has never been synced.
func (s *PriceStore) Get(ctx context.Context, symbol string) (*models.PriceAsset, error) {
	query := `SELECT symbol, name, asset_class, current_price, previous_price,
		percent_change_24h, last_updated FROM popular_assets WHERE symbol = $1`

	var a models.PriceAsset
	err := s.db.QueryRowContext(ctx, query, symbol).Scan(
		&a.Symbol, &a.Name, &a.AssetClass, &a.CurrentPrice,
		&a.PreviousPrice, &a.PercentChange24h, &a.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get price asset: %w", err)
	}
	return &a, nil
}

// Upsert writes a price record keyed by symbol.
func (s *PriceStore) Upsert(ctx context.Context, a *models.PriceAsset) error {
	query := `
		INSERT INTO popular_assets (
			symbol, name, asset_class, current_price, previous_price,
			percent_change_24h, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			asset_class = EXCLUDED.asset_class,
			current_price = EXCLUDED.current_price,
			previous_price = EXCLUDED.previous_price,
			percent_change_24h = EXCLUDED.percent_change_24h,
			last_updated = EXCLUDED.last_updated`

	_, err := s.db.ExecContext(ctx, query,
		a.Symbol, a.Name, a.AssetClass, a.CurrentPrice,
		a.PreviousPrice, a.PercentChange24h, a.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert price asset: %w", err)
	}
	return nil
}

// List returns all stored price records keyed by symbol.
func (s *PriceStore) List(ctx context.Context) (map[string]models.PriceAsset, error) {
	query := `SELECT symbol, name, asset_class, current_price, previous_price,
		percent_change_24h, last_updated FROM popular_assets`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list price assets: %w", err)
	}
	defer rows.Close()

	assets := make(map[string]models.PriceAsset)
	for rows.Next() {
		var a models.PriceAsset
		if err := rows.Scan(
			&a.Symbol, &a.Name, &a.AssetClass, &a.CurrentPrice,
			&a.PreviousPrice, &a.PercentChange24h, &a.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan price asset: %w", err)
		}
		assets[a.Symbol] = a
	}
	return assets, rows.Err()
}
