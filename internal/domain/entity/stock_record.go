package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la existencia autoritativa de un producto en el ledger.
// Quantity nunca es negativa; un registro con cantidad 0 se elimina.
type StockRecord struct {
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	DisplayTag string          `json:"display_tag,omitempty"` // emoji o etiqueta corta
	Discount   decimal.Decimal `json:"discount"`              // fracción 0..1 sobre UnitPrice
	Expiration string          `json:"expiration,omitempty"`  // texto libre informado por el operador
	UpdatedAt  time.Time       `json:"updated_at"`
}

// EffectivePrice devuelve el precio unitario con el descuento aplicado.
func (r StockRecord) EffectivePrice() decimal.Decimal {
	if !r.Discount.IsPositive() {
		return r.UnitPrice
	}
	return r.UnitPrice.Mul(decimal.NewFromInt(1).Sub(r.Discount))
}
