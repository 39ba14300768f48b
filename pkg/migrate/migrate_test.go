package migrate

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(migrationsFS, dir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"))
	}
}

func TestRun_SinDB(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "up"))
}

func TestMigrations_PreciosSinEscalaFija(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, dir+"/00002_stock_terms_exact_prices.sql")
	require.NoError(t, err)
	up := strings.SplitN(string(body), "-- +goose Down", 2)[0]

	assert.Contains(t, up, "ALTER TABLE stock_records ALTER COLUMN unit_price TYPE NUMERIC;")
	assert.Contains(t, up, "ALTER TABLE purchase_records ALTER COLUMN unit_price TYPE NUMERIC;")
	assert.Contains(t, up, "discount")
	assert.Contains(t, up, "expiration")
}
