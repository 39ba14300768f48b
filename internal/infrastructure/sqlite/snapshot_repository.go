// Package sqlite persiste el ledger en un archivo SQLite vía GORM (STORE_DRIVER=sqlite).
package sqlite

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// batchSize filas por INSERT; con 9 columnas queda lejos del límite de variables de SQLite.
const batchSize = 500

// SnapshotRepo mismo modelo que el adaptador PostgreSQL: stock reescrito, historial append-only.
type SnapshotRepo struct {
	db *gorm.DB
}

// Open abre (o crea) la base en dsn y migra las tablas.
func Open(dsn string) (*SnapshotRepo, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", dsn, err)
	}
	return NewSnapshotRepository(db)
}

// NewSnapshotRepository usa una conexión GORM existente y migra las tablas.
func NewSnapshotRepository(db *gorm.DB) (*SnapshotRepo, error) {
	if err := db.AutoMigrate(&stockRow{}, &purchaseRow{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrar: %w", err)
	}
	return &SnapshotRepo{db: db}, nil
}

// Close libera la conexión subyacente.
func (r *SnapshotRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifica que la base siga accesible.
func (r *SnapshotRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Load lee stock por posición e historial por id.
func (r *SnapshotRepo) Load(ctx context.Context, shopID string) (*entity.Snapshot, error) {
	db := r.db.WithContext(ctx)
	snap := entity.NewSnapshot()

	var stock []stockRow
	if err := db.Where("shop_id = ?", shopID).Order("position").Find(&stock).Error; err != nil {
		return nil, fmt.Errorf("sqlite: load stock: %w", err)
	}
	for _, row := range stock {
		price, err := decimal.NewFromString(row.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("sqlite: precio inválido de %s: %w", row.ProductID, err)
		}
		discount := decimal.Zero
		if row.Discount != "" {
			if discount, err = decimal.NewFromString(row.Discount); err != nil {
				return nil, fmt.Errorf("sqlite: descuento inválido de %s: %w", row.ProductID, err)
			}
		}
		snap.Stock = append(snap.Stock, entity.StockRecord{
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
			UnitPrice:  price,
			DisplayTag: row.DisplayTag,
			Discount:   discount,
			Expiration: row.Expiration,
			UpdatedAt:  row.UpdatedAt,
		})
	}

	var purchases []purchaseRow
	if err := db.Where("shop_id = ?", shopID).Order("id").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	for _, row := range purchases {
		price, err := decimal.NewFromString(row.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("sqlite: precio inválido en %s: %w", row.CorrelationID, err)
		}
		snap.History[row.BuyerID] = append(snap.History[row.BuyerID], entity.PurchaseRecord{
			CorrelationID: row.CorrelationID,
			ProductID:     row.ProductID,
			Quantity:      row.Quantity,
			UnitPrice:     price,
			BuyerID:       row.BuyerID,
			SellerID:      row.SellerID,
			Note:          row.Note,
			SoldAt:        row.SoldAt,
		})
	}
	return snap, nil
}

// Save reemplaza el stock e inserta las compras que aún no existen, en una transacción.
func (r *SnapshotRepo) Save(ctx context.Context, shopID string, snap *entity.Snapshot) error {
	stock := make([]stockRow, 0, len(snap.Stock))
	for i, s := range snap.Stock {
		stock = append(stock, stockRow{
			ShopID:     shopID,
			ProductID:  s.ProductID,
			Quantity:   s.Quantity,
			UnitPrice:  s.UnitPrice.String(),
			DisplayTag: s.DisplayTag,
			Discount:   s.Discount.String(),
			Expiration: s.Expiration,
			Position:   i,
			UpdatedAt:  s.UpdatedAt,
		})
	}

	buyers := make([]string, 0, len(snap.History))
	for buyer := range snap.History {
		buyers = append(buyers, buyer)
	}
	sort.Strings(buyers)
	var purchases []purchaseRow
	for _, buyer := range buyers {
		for _, p := range snap.History[buyer] {
			purchases = append(purchases, purchaseRow{
				ShopID:        shopID,
				CorrelationID: p.CorrelationID,
				BuyerID:       p.BuyerID,
				ProductID:     p.ProductID,
				Quantity:      p.Quantity,
				UnitPrice:     p.UnitPrice.String(),
				SellerID:      p.SellerID,
				Note:          p.Note,
				SoldAt:        p.SoldAt,
			})
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", shopID).Delete(&stockRow{}).Error; err != nil {
			return fmt.Errorf("sqlite: clear stock: %w", err)
		}
		if len(stock) > 0 {
			if err := tx.CreateInBatches(&stock, batchSize).Error; err != nil {
				return fmt.Errorf("sqlite: insert stock: %w", err)
			}
		}
		if len(purchases) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&purchases, batchSize).Error; err != nil {
				return fmt.Errorf("sqlite: insert history: %w", err)
			}
		}
		return nil
	})
}
