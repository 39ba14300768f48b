package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo persiste el ledger de cada tienda en las tablas stock_records y purchase_records.
// El stock se reescribe completo en cada guardado; el historial es solo de inserción.
type SnapshotRepo struct {
	q  Querier
	tx *TxRunner
}

// NewSnapshotRepository construye el adaptador. Las lecturas usan q y los guardados abren una tx.
func NewSnapshotRepository(q Querier, tx *TxRunner) *SnapshotRepo {
	return &SnapshotRepo{q: q, tx: tx}
}

// Ping verifica la conexión con una consulta trivial; lo usa GET /health.
func (r *SnapshotRepo) Ping(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Load lee el stock (en orden de alta) y el historial (en orden de venta) de la tienda.
func (r *SnapshotRepo) Load(ctx context.Context, shopID string) (*entity.Snapshot, error) {
	snap := entity.NewSnapshot()

	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity, unit_price, display_tag, discount, expiration, updated_at
		FROM stock_records WHERE shop_id = $1
		ORDER BY position`, shopID)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ProductID, &s.Quantity, &s.UnitPrice, &s.DisplayTag,
			&s.Discount, &s.Expiration, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		snap.Stock = append(snap.Stock, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT correlation_id, product_id, quantity, unit_price, buyer_id, seller_id, note, sold_at
		FROM purchase_records WHERE shop_id = $1
		ORDER BY id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.PurchaseRecord
		if err := rows.Scan(&p.CorrelationID, &p.ProductID, &p.Quantity, &p.UnitPrice,
			&p.BuyerID, &p.SellerID, &p.Note, &p.SoldAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		snap.History[p.BuyerID] = append(snap.History[p.BuyerID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return snap, nil
}

// Save reemplaza el stock e inserta las compras nuevas en una sola transacción.
func (r *SnapshotRepo) Save(ctx context.Context, shopID string, snap *entity.Snapshot) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM stock_records WHERE shop_id = $1`, shopID); err != nil {
			return fmt.Errorf("clear stock: %w", err)
		}

		batch := &pgx.Batch{}
		for i, s := range snap.Stock {
			batch.Queue(`
				INSERT INTO stock_records
					(shop_id, product_id, quantity, unit_price, display_tag, discount, expiration, position, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				shopID, s.ProductID, s.Quantity, s.UnitPrice, s.DisplayTag, s.Discount, s.Expiration, i, s.UpdatedAt)
		}
		for _, records := range snap.History {
			for _, p := range records {
				batch.Queue(`
					INSERT INTO purchase_records
						(shop_id, correlation_id, product_id, quantity, unit_price, buyer_id, seller_id, note, sold_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
					ON CONFLICT (shop_id, correlation_id) DO NOTHING`,
					shopID, p.CorrelationID, p.ProductID, p.Quantity, p.UnitPrice,
					p.BuyerID, p.SellerID, p.Note, p.SoldAt)
			}
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
}
