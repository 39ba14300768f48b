package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliverRequest body para POST /api/deliveries.
// UnitPrice opcional: si se omite se usa el precio vigente del producto.
type DeliverRequest struct {
	BuyerID   string           `json:"buyer_id" validate:"required,max=64"`
	ProductID string           `json:"product_id" validate:"required,max=100"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Note      string           `json:"note" validate:"max=1800"`
}

// PurchaseResponse salida de un registro de compra.
type PurchaseResponse struct {
	CorrelationID string          `json:"correlation_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	TotalDisplay  string          `json:"total_display"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	Note          string          `json:"note,omitempty"`
	SoldAt        time.Time       `json:"sold_at"`
}

// DeliverResponse resultado de una entrega: la venta quedó registrada aunque Notified sea false.
type DeliverResponse struct {
	Purchase     PurchaseResponse  `json:"purchase"`
	Remaining    int64             `json:"remaining"`
	Notified     bool              `json:"notified"`
	RestockAlert bool              `json:"restock_alert"`
	Warnings     []WarningResponse `json:"warnings,omitempty"`
}

// HistoryResponse historial de compras de un comprador en orden cronológico.
type HistoryResponse struct {
	BuyerID string             `json:"buyer_id"`
	Items   []PurchaseResponse `json:"items"`
	Total   int                `json:"total"`
}
