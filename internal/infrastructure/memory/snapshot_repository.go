// Package memory guarda los snapshots del ledger en memoria del proceso (STORE_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo guarda copias; lo que devuelve Load no comparte memoria con lo guardado.
type SnapshotRepo struct {
	mu    sync.RWMutex
	shops map[string]*entity.Snapshot
}

// NewSnapshotRepository construye el repositorio vacío.
func NewSnapshotRepository() *SnapshotRepo {
	return &SnapshotRepo{shops: make(map[string]*entity.Snapshot)}
}

// Load devuelve una copia del último snapshot guardado, o uno vacío.
func (r *SnapshotRepo) Load(_ context.Context, shopID string) (*entity.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shops[shopID]
	if !ok {
		return entity.NewSnapshot(), nil
	}
	return clone(s), nil
}

// Save reemplaza el snapshot de la tienda.
func (r *SnapshotRepo) Save(_ context.Context, shopID string, snap *entity.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[shopID] = clone(snap)
	return nil
}

func clone(s *entity.Snapshot) *entity.Snapshot {
	out := entity.NewSnapshot()
	if s == nil {
		return out
	}
	out.Stock = append(out.Stock, s.Stock...)
	for buyer, records := range s.History {
		out.History[buyer] = append([]entity.PurchaseRecord(nil), records...)
	}
	return out
}
