// Package store abre el repositorio de snapshots configurado en STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/Entregas-api/internal/domain/repository"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Entregas-api/pkg/config"
)

// Open construye el repositorio de snapshots según STORE_DRIVER.
// El func devuelto libera las conexiones abiertas.
func Open(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memory.NewSnapshotRepository(), noop, nil
	case config.StoreFile:
		repo, err := filestore.NewSnapshotRepository(cfg.Store.FileDir)
		return repo, noop, err
	case config.StoreSQLite:
		repo, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.NewSnapshotRepository(pool, postgres.NewTxRunner(pool)), pool.Close, nil
	case config.StoreRedis:
		repo, err := redisstore.New(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
}
