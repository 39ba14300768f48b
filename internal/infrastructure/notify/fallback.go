package notify

import (
	"context"
	"fmt"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
	"github.com/jhoicas/Entregas-api/pkg/logger"
)

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.EventLog = (*LogEventLog)(nil)
)

// LogNotifier se usa cuando no hay relay de DM configurado: registra el mensaje y
// reporta que el comprador no lo recibió.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Notify(_ context.Context, shopID, buyerID, content string) error {
	n.log.Info().Str("shop_id", shopID).Str("buyer_id", buyerID).Str("content", content).Msg("DM sin relay configurado")
	return fmt.Errorf("notify: sin relay de DM para el comprador %s", buyerID)
}

// LogEventLog escribe los eventos del canal de log en el logger de la aplicación.
type LogEventLog struct {
	log *logger.Logger
}

func NewLogEventLog(log *logger.Logger) *LogEventLog { return &LogEventLog{log: log} }

func (e *LogEventLog) Log(_ context.Context, shopID, event string) {
	e.log.Info().Str("shop_id", shopID).Msg(event)
}
