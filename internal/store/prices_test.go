// internal/store/prices_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/models"
)

var priceColumns = []string{
	"symbol", "name", "asset_class", "current_price", "previous_price",
	"percent_change_24h", "last_updated",
}

func TestPriceStore_Get_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM popular_assets WHERE symbol = \$1`).
		WithArgs("BTC").
		WillReturnRows(sqlmock.NewRows(priceColumns))

	store := NewPriceStore(db)
	asset, err := store.Get(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Nil(t, asset)
}

func TestPriceStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	asset := &models.PriceAsset{
		Symbol:           "BTC",
		Name:             "Bitcoin",
		AssetClass:       models.AssetClassCrypto,
		CurrentPrice:     64000,
		PreviousPrice:    62000,
		PercentChange24h: 3.23,
		LastUpdated:      updated,
	}

	mock.ExpectExec(`INSERT INTO popular_assets .+ON CONFLICT \(symbol\) DO UPDATE SET`).
		WithArgs("BTC", "Bitcoin", "crypto", 64000.0, 62000.0, 3.23, updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPriceStore(db)
	require.NoError(t, store.Upsert(context.Background(), asset))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM popular_assets`).
		WillReturnRows(sqlmock.NewRows(priceColumns).
			AddRow("BTC", "Bitcoin", "crypto", 64000.0, 62000.0, 3.23, updated).
			AddRow("AAPL", "Apple", "stock", 175.0, 170.0, 2.94, updated))

	store := NewPriceStore(db)
	assets, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, 64000.0, assets["BTC"].CurrentPrice)
	assert.Equal(t, models.AssetClassStock, assets["AAPL"].AssetClass)
}
