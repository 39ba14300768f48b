package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/pkg/money"
)

const dateLayout = "2006-01-02 15:04:05"

// RenderDeliveryMessage arma el mensaje directo que recibe el comprador.
func RenderDeliveryMessage(storeName string, p entity.PurchaseRecord, tag string, f *money.Formatter, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	product := p.ProductID
	if tag != "" {
		product += " " + tag
	}

	var b strings.Builder
	fmt.Fprintf(&b, "__%s__\n", storeName)
	fmt.Fprintf(&b, "Aquí está tu producto: %s (x%d)\n", product, p.Quantity)
	fmt.Fprintf(&b, "Monto: %s\n", f.WithUSD(p.Total()))
	fmt.Fprintf(&b, "Fecha de compra: %s\n", p.SoldAt.In(loc).Format(dateLayout))
	fmt.Fprintf(&b, "Pedido: %s\n", p.CorrelationID)
	if p.Note != "" {
		fmt.Fprintf(&b, "Información del producto:\n```%s```\n", p.Note)
	}
	b.WriteString("Gracias por tu compra.")
	return b.String()
}
