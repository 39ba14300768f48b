package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRecord es la entrada histórica e inmutable de una venta completada.
// UnitPrice es el precio vigente al momento de la venta, no el actual del producto.
type PurchaseRecord struct {
	CorrelationID string          `json:"correlation_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	Note          string          `json:"note,omitempty"`
	SoldAt        time.Time       `json:"sold_at"`
}

// Total devuelve UnitPrice * Quantity.
func (p PurchaseRecord) Total() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
}
