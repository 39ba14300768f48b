package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// Snapshot copia el estado completo del ledger para persistirlo.
func (l *Ledger) Snapshot() *entity.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &entity.Snapshot{
		Stock:   make([]entity.StockRecord, 0, len(l.order)),
		History: make(map[string][]entity.PurchaseRecord, len(l.history)),
	}
	for _, id := range l.order {
		snap.Stock = append(snap.Stock, *l.stock[id])
	}
	for buyer, records := range l.history {
		cp := make([]entity.PurchaseRecord, len(records))
		copy(cp, records)
		snap.History[buyer] = cp
	}
	return snap
}

// Restore reemplaza el estado del ledger con el snapshot. Valida los invariantes
// (cantidades no negativas, ids únicos); los registros con cantidad 0 se descartan.
func (l *Ledger) Restore(snap *entity.Snapshot) error {
	stock := make(map[string]*entity.StockRecord)
	order := make([]string, 0)
	history := make(map[string][]entity.PurchaseRecord)
	ids := make(map[string]struct{})

	if snap != nil {
		for _, rec := range snap.Stock {
			if rec.ProductID == "" || rec.Quantity < 0 || rec.UnitPrice.IsNegative() ||
				rec.Discount.IsNegative() || rec.Discount.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w: registro de stock inválido %q", domain.ErrInvalidArgument, rec.ProductID)
			}
			if _, dup := stock[rec.ProductID]; dup {
				return fmt.Errorf("%w: producto duplicado %q", domain.ErrInvalidArgument, rec.ProductID)
			}
			if rec.Quantity == 0 {
				continue
			}
			r := rec
			stock[rec.ProductID] = &r
			order = append(order, rec.ProductID)
		}
		for buyer, records := range snap.History {
			cp := make([]entity.PurchaseRecord, len(records))
			copy(cp, records)
			for _, p := range cp {
				ids[p.CorrelationID] = struct{}{}
			}
			history[buyer] = cp
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stock, l.order, l.history, l.ids = stock, order, history, ids
	return nil
}

// FromSnapshot crea un ledger con el estado del snapshot.
func FromSnapshot(snap *entity.Snapshot, opts ...Option) (*Ledger, error) {
	l := New(opts...)
	if err := l.Restore(snap); err != nil {
		return nil, err
	}
	return l, nil
}
