package repository

import (
	"context"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia del ledger de una tienda (DIP).
// Load devuelve un snapshot vacío (no nil) cuando la tienda no tiene datos guardados.
type SnapshotRepository interface {
	Load(ctx context.Context, shopID string) (*entity.Snapshot, error)
	Save(ctx context.Context, shopID string, snapshot *entity.Snapshot) error
}
