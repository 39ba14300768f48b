package ledger

import (
	"strings"

	"github.com/google/uuid"
)

// CorrelationIDLength longitud del token corto que identifica una venta.
const CorrelationIDLength = 8

// NewCorrelationID genera un token corto en mayúsculas a partir de un UUIDv4.
func NewCorrelationID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:CorrelationIDLength])
}
