package ports

import (
	"context"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// Notifier entrega un mensaje directo al comprador (DM). Un error significa que el
// comprador no recibió el mensaje; el caller lo reporta sin revertir la venta.
type Notifier interface {
	Notify(ctx context.Context, shopID, buyerID, content string) error
}

// EventLog destino best-effort de eventos (canal de log). No bloquea y nunca falla.
type EventLog interface {
	Log(ctx context.Context, shopID, event string)
}

// ReceiptRenderer genera el comprobante PDF de una compra.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, receipt Receipt) ([]byte, error)
}

// Receipt datos ya formateados que necesita el renderizador del comprobante.
type Receipt struct {
	StoreName  string
	Purchase   entity.PurchaseRecord
	DisplayTag string
	UnitPrice  string // monto formateado en la moneda de la tienda
	Total      string // total formateado, con equivalente USD si aplica
	SoldAt     string // fecha en la zona horaria de la tienda
}
