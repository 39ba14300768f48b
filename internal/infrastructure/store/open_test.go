package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Entregas-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Entregas-api/pkg/config"
)

func TestOpen_DriversLocales(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}
	repo, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.SnapshotRepo{}, repo)

	cfg.Store = config.StoreConfig{Driver: config.StoreFile, FileDir: t.TempDir()}
	repo, closeFn, err = Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &filestore.SnapshotRepo{}, repo)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, closeFn, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
