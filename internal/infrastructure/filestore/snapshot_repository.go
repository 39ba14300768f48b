// Package filestore persiste el ledger de cada tienda como un documento JSON en disco (STORE_DRIVER=file).
package filestore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo un archivo por tienda: <dir>/ledger-<hex(shopID)>.json.
// La escritura va a un temporal y se renombra, así un corte a mitad nunca deja un JSON truncado.
type SnapshotRepo struct {
	dir string
	mu  sync.Mutex
}

// NewSnapshotRepository crea el directorio si no existe.
func NewSnapshotRepository(dir string) (*SnapshotRepo, error) {
	if dir == "" {
		return nil, errors.New("filestore: directorio vacío")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: crear %s: %w", dir, err)
	}
	return &SnapshotRepo{dir: dir}, nil
}

// Load lee el documento de la tienda; si no existe devuelve un snapshot vacío.
func (r *SnapshotRepo) Load(_ context.Context, shopID string) (*entity.Snapshot, error) {
	data, err := os.ReadFile(r.path(shopID))
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: leer: %w", err)
	}
	snap := entity.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("filestore: JSON inválido para %s: %w", shopID, err)
	}
	if snap.History == nil {
		snap.History = map[string][]entity.PurchaseRecord{}
	}
	return snap, nil
}

// Save escribe el snapshot completo de forma atómica.
func (r *SnapshotRepo) Save(ctx context.Context, shopID string, snap *entity.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: serializar: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(r.dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: escribir: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(shopID)); err != nil {
		return fmt.Errorf("filestore: renombrar: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) path(shopID string) string {
	return filepath.Join(r.dir, "ledger-"+hex.EncodeToString([]byte(shopID))+".json")
}
