package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/stock.
type AddStockRequest struct {
	ProductID  string          `json:"product_id" validate:"required,max=100"`
	Quantity   int64           `json:"quantity" validate:"gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	DisplayTag string          `json:"display_tag" validate:"omitempty,max=64"`
	Discount   decimal.Decimal `json:"discount"` // fracción 0..1, p. ej. 0.15 = 15 %
	Expiration string          `json:"expiration" validate:"omitempty,max=64"`
}

// RemoveStockRequest body para POST /api/stock/:product_id/remove.
type RemoveStockRequest struct {
	Quantity int64 `json:"quantity" validate:"gt=0"`
}

// UpdatePriceRequest body para PUT /api/stock/:product_id/price.
type UpdatePriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReplaceStockRequest body para POST /api/stock/replace.
type ReplaceStockRequest struct {
	FromProductID string `json:"from_product_id" validate:"required,max=100"`
	ToProductID   string `json:"to_product_id" validate:"required,max=100,nefield=FromProductID"`
	Quantity      int64  `json:"quantity" validate:"gt=0"`
}

// StockRecordResponse salida de un registro de stock.
type StockRecordResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Price      string          `json:"price_display"`
	DisplayTag string          `json:"display_tag,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice string          `json:"final_price_display"` // precio con descuento
	Expiration string          `json:"expiration,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockListResponse listado de stock de la tienda.
type StockListResponse struct {
	Items []StockRecordResponse `json:"items"`
	Total int                   `json:"total"`
}

// StockChangeResponse resultado de una mutación de stock. Warnings lista fallos no fatales
// (por ejemplo la persistencia) que no invalidan el cambio en memoria.
type StockChangeResponse struct {
	Record   StockRecordResponse  `json:"record"`
	Previous *StockRecordResponse `json:"previous,omitempty"`
	Removed  bool                 `json:"removed,omitempty"`
	Warnings []WarningResponse    `json:"warnings,omitempty"`
}

// ReplaceStockResponse resultado de mover stock entre productos.
type ReplaceStockResponse struct {
	From     StockRecordResponse `json:"from"`
	To       StockRecordResponse `json:"to"`
	Warnings []WarningResponse   `json:"warnings,omitempty"`
}
