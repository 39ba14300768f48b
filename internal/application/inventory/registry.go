package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/ledger"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
)

// LedgerRegistry mantiene un ledger por tienda. Carga cada ledger desde el repositorio
// la primera vez que se pide y serializa los guardados de una misma tienda.
type LedgerRegistry struct {
	repo repository.SnapshotRepository
	opts []ledger.Option

	mu    sync.Mutex
	shops map[string]*shopLedger
	loads singleflight.Group // una sola carga en vuelo por tienda
}

type shopLedger struct {
	ledger *ledger.Ledger
	saveMu sync.Mutex
}

// NewLedgerRegistry construye el registro sobre un repositorio de snapshots.
func NewLedgerRegistry(repo repository.SnapshotRepository, opts ...ledger.Option) *LedgerRegistry {
	return &LedgerRegistry{repo: repo, opts: opts, shops: make(map[string]*shopLedger)}
}

// Ledger devuelve el ledger de la tienda, cargándolo si es necesario.
// Un fallo de carga no deja entrada en caché: el siguiente llamado reintenta.
func (r *LedgerRegistry) Ledger(ctx context.Context, shopID string) (*ledger.Ledger, error) {
	s, err := r.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.ledger, nil
}

// Persist guarda el estado actual del ledger de la tienda. El snapshot se toma dentro
// del candado de guardado, así un guardado posterior nunca queda pisado por uno anterior.
// El estado en memoria sigue siendo la fuente de verdad aunque falle.
func (r *LedgerRegistry) Persist(ctx context.Context, shopID string) error {
	s, err := r.shop(ctx, shopID)
	if err != nil {
		return err
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := r.repo.Save(ctx, shopID, s.ledger.Snapshot()); err != nil {
		return fmt.Errorf("%w: guardar tienda %s: %v", domain.ErrPersistence, shopID, err)
	}
	return nil
}

func (r *LedgerRegistry) shop(ctx context.Context, shopID string) (*shopLedger, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return nil, fmt.Errorf("%w: shop_id vacío", domain.ErrInvalidArgument)
	}
	if s, ok := r.cached(shopID); ok {
		return s, nil
	}

	// La carga corre fuera de r.mu: una tienda lenta no bloquea a las demás.
	v, err, _ := r.loads.Do(shopID, func() (any, error) {
		if s, ok := r.cached(shopID); ok {
			return s, nil
		}
		snap, err := r.repo.Load(ctx, shopID)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar tienda %s: %v", domain.ErrPersistence, shopID, err)
		}
		l, err := ledger.FromSnapshot(snap, r.opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: snapshot corrupto de %s: %v", domain.ErrPersistence, shopID, err)
		}
		s := &shopLedger{ledger: l}
		r.mu.Lock()
		r.shops[shopID] = s
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*shopLedger), nil
}

func (r *LedgerRegistry) cached(shopID string) (*shopLedger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[shopID]
	return s, ok
}
