package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Entregas-api/internal/application/dto"
	"github.com/jhoicas/Entregas-api/internal/application/ports"
	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/ledger"
	"github.com/jhoicas/Entregas-api/pkg/logger"
	"github.com/jhoicas/Entregas-api/pkg/money"
)

// DeliveryConfig parámetros de negocio de la entrega.
type DeliveryConfig struct {
	StoreName        string
	RestockThreshold int64          // alerta cuando el restante queda en o por debajo
	Location         *time.Location // zona horaria de las fechas mostradas al comprador
}

// DeliveryUseCase vende y entrega producto a un comprador.
//
// Política: primero se descuenta y registra la venta, luego se notifica (best-effort).
// Un fallo de notificación o de persistencia no revierte la venta; se devuelve como advertencia.
type DeliveryUseCase struct {
	registry *LedgerRegistry
	notifier ports.Notifier
	events   ports.EventLog
	receipts ports.ReceiptRenderer
	money    *money.Formatter
	metrics  ports.LedgerMetrics
	cfg      DeliveryConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	registry *LedgerRegistry,
	notifier ports.Notifier,
	events ports.EventLog,
	receipts ports.ReceiptRenderer,
	formatter *money.Formatter,
	metrics ports.LedgerMetrics,
	cfg DeliveryConfig,
	log *logger.Logger,
) *DeliveryUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &DeliveryUseCase{
		registry: registry,
		notifier: notifier,
		events:   events,
		receipts: receipts,
		money:    formatter,
		metrics:  metrics,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Deliver ejecuta la venta y la entrega al comprador.
// Errores de validación, producto inexistente o stock insuficiente dejan el ledger intacto.
func (uc *DeliveryUseCase) Deliver(ctx context.Context, shopID, sellerID string, in dto.DeliverRequest) (*dto.DeliverResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	sale, err := l.Sell(ledger.SaleInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		BuyerID:   in.BuyerID,
		SellerID:  sellerID,
		Note:      in.Note,
		Timestamp: uc.now(),
	})
	if err != nil {
		uc.metrics.SaleRejected(shopID, rejectReason(err))
		return nil, err
	}
	purchase, remaining := sale.Purchase, sale.Remaining
	uc.metrics.SaleRecorded(shopID, purchase.Quantity)

	out := &dto.DeliverResponse{
		Purchase:  uc.toPurchaseResponse(purchase),
		Remaining: remaining,
		Notified:  true,
	}
	out.Warnings = persistWithWarning(ctx, uc.registry, uc.metrics, uc.log, shopID)

	content := RenderDeliveryMessage(uc.cfg.StoreName, purchase, sale.DisplayTag, uc.money, uc.cfg.Location)
	if err := uc.notifier.Notify(ctx, shopID, purchase.BuyerID, content); err != nil {
		nerr := fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
		out.Notified = false
		out.Warnings = append(out.Warnings, dto.WarningResponse{Code: dto.WarningNotificationFailed, Message: nerr.Error()})
		uc.metrics.NotificationFailed(shopID)
		uc.log.Warn().Err(err).
			Str("shop_id", shopID).
			Str("buyer_id", purchase.BuyerID).
			Str("correlation_id", purchase.CorrelationID).
			Msg("entrega registrada pero el comprador no recibió el mensaje")
	}

	uc.events.Log(ctx, shopID, fmt.Sprintf("%s entregó %dx %s a %s por %s (pedido %s)",
		sellerID, purchase.Quantity, purchase.ProductID, purchase.BuyerID,
		uc.money.WithUSD(purchase.Total()), purchase.CorrelationID))

	if remaining <= uc.cfg.RestockThreshold {
		out.RestockAlert = true
		uc.metrics.RestockAlert(shopID)
		uc.events.Log(ctx, shopID, fmt.Sprintf("Alerta de stock: quedan %d unidades de %s", remaining, purchase.ProductID))
	}
	return out, nil
}

// History devuelve el historial del comprador (vacío si nunca compró).
func (uc *DeliveryUseCase) History(ctx context.Context, shopID, buyerID string) (*dto.HistoryResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	records := l.HistoryFor(buyerID)
	items := make([]dto.PurchaseResponse, 0, len(records))
	for _, p := range records {
		items = append(items, uc.toPurchaseResponse(p))
	}
	return &dto.HistoryResponse{BuyerID: buyerID, Items: items, Total: len(items)}, nil
}

// Receipt genera el comprobante PDF de una compra del historial del comprador.
func (uc *DeliveryUseCase) Receipt(ctx context.Context, shopID, buyerID, correlationID string) ([]byte, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	for _, p := range l.HistoryFor(buyerID) {
		if p.CorrelationID != correlationID {
			continue
		}
		tag := ""
		if rec, ok := l.Get(p.ProductID); ok {
			tag = rec.DisplayTag
		}
		return uc.receipts.RenderReceipt(ctx, ports.Receipt{
			StoreName:  uc.cfg.StoreName,
			Purchase:   p,
			DisplayTag: tag,
			UnitPrice:  uc.money.Amount(p.UnitPrice),
			Total:      uc.money.WithUSD(p.Total()),
			SoldAt:     p.SoldAt.In(uc.cfg.Location).Format(dateLayout),
		})
	}
	return nil, fmt.Errorf("%w: compra %s del comprador %s", domain.ErrNotFound, correlationID, buyerID)
}

func (uc *DeliveryUseCase) toPurchaseResponse(p entity.PurchaseRecord) dto.PurchaseResponse {
	total := p.Total()
	return dto.PurchaseResponse{
		CorrelationID: p.CorrelationID,
		ProductID:     p.ProductID,
		Quantity:      p.Quantity,
		UnitPrice:     p.UnitPrice,
		Total:         total,
		TotalDisplay:  uc.money.WithUSD(total),
		BuyerID:       p.BuyerID,
		SellerID:      p.SellerID,
		Note:          p.Note,
		SoldAt:        p.SoldAt,
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}
