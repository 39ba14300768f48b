package sqlite

import "time"

// stockRow fila de stock por tienda. unit_price y discount se guardan como texto para no perder precisión decimal.
type stockRow struct {
	ShopID     string `gorm:"primaryKey"`
	ProductID  string `gorm:"primaryKey"`
	Quantity   int64
	UnitPrice  string
	DisplayTag string
	Discount   string `gorm:"default:'0'"`
	Expiration string
	Position   int
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
}

func (stockRow) TableName() string { return "stock_records" }

// purchaseRow compra histórica; el id autoincremental fija el orden de venta.
type purchaseRow struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	ShopID        string `gorm:"uniqueIndex:ux_purchase_shop_corr;index:ix_purchase_buyer,priority:1"`
	CorrelationID string `gorm:"uniqueIndex:ux_purchase_shop_corr"`
	BuyerID       string `gorm:"index:ix_purchase_buyer,priority:2"`
	ProductID     string
	Quantity      int64
	UnitPrice     string
	SellerID      string
	Note          string
	SoldAt        time.Time
}

func (purchaseRow) TableName() string { return "purchase_records" }
