package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Entregas-api/internal/application/dto"
	"github.com/jhoicas/Entregas-api/internal/application/ports"
	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/ledger"
	"github.com/jhoicas/Entregas-api/pkg/logger"
	"github.com/jhoicas/Entregas-api/pkg/money"
)

// StockUseCase casos de uso de administración de stock (alta, baja, precio, reemplazo, consulta).
// Cada mutación se persiste y se informa al canal de log; un fallo al persistir viaja
// como advertencia junto al resultado exitoso.
type StockUseCase struct {
	registry *LedgerRegistry
	events   ports.EventLog
	money    *money.Formatter
	metrics  ports.LedgerMetrics
	log      *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	registry *LedgerRegistry,
	events ports.EventLog,
	formatter *money.Formatter,
	metrics ports.LedgerMetrics,
	log *logger.Logger,
) *StockUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockUseCase{registry: registry, events: events, money: formatter, metrics: metrics, log: log}
}

// Add suma stock a un producto o lo crea.
func (uc *StockUseCase) Add(ctx context.Context, shopID, actorID string, in dto.AddStockRequest) (*dto.StockChangeResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	rec, err := l.AddStockItem(ledger.StockInput{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		DisplayTag: in.DisplayTag,
		Discount:   in.Discount,
		Expiration: in.Expiration,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.StockChangeResponse{Record: uc.toStockResponse(rec)}
	out.Warnings = uc.persist(ctx, shopID)

	uc.events.Log(ctx, shopID, fmt.Sprintf("%s agregó %dx %s al stock a %s con %s%% de descuento",
		actorID, in.Quantity, rec.ProductID, uc.money.WithUSD(rec.UnitPrice), rec.Discount.Shift(2).StringFixed(2)))
	return out, nil
}

// Remove descuenta stock; con la cantidad restante exacta el producto desaparece.
func (uc *StockUseCase) Remove(ctx context.Context, shopID, actorID, productID string, in dto.RemoveStockRequest) (*dto.StockChangeResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	rec, err := l.RemoveStock(productID, in.Quantity)
	if err != nil {
		return nil, err
	}
	out := &dto.StockChangeResponse{Record: uc.toStockResponse(rec), Removed: rec.Quantity == 0}
	out.Warnings = uc.persist(ctx, shopID)

	uc.events.Log(ctx, shopID, fmt.Sprintf("%s retiró %dx %s del stock (quedan %d)",
		actorID, in.Quantity, productID, rec.Quantity))
	return out, nil
}

// UpdatePrice cambia el precio de un producto existente.
func (uc *StockUseCase) UpdatePrice(ctx context.Context, shopID, actorID, productID string, in dto.UpdatePriceRequest) (*dto.StockChangeResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	before, after, err := l.UpdatePrice(productID, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	prev := uc.toStockResponse(before)
	out := &dto.StockChangeResponse{Record: uc.toStockResponse(after), Previous: &prev}
	out.Warnings = uc.persist(ctx, shopID)

	uc.events.Log(ctx, shopID, fmt.Sprintf("%s cambió el precio de %s de %s a %s",
		actorID, productID, uc.money.WithUSD(before.UnitPrice), uc.money.WithUSD(after.UnitPrice)))
	return out, nil
}

// Replace mueve cantidad de un producto a otro.
func (uc *StockUseCase) Replace(ctx context.Context, shopID, actorID string, in dto.ReplaceStockRequest) (*dto.ReplaceStockResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	from, to, err := l.Replace(in.FromProductID, in.ToProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	out := &dto.ReplaceStockResponse{From: uc.toStockResponse(from), To: uc.toStockResponse(to)}
	out.Warnings = uc.persist(ctx, shopID)

	uc.events.Log(ctx, shopID, fmt.Sprintf("%s reemplazó %dx %s por %s",
		actorID, in.Quantity, in.FromProductID, in.ToProductID))
	return out, nil
}

// List devuelve el stock de la tienda en orden de alta.
func (uc *StockUseCase) List(ctx context.Context, shopID string) (*dto.StockListResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	records := l.ListStock()
	items := make([]dto.StockRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, uc.toStockResponse(rec))
	}
	return &dto.StockListResponse{Items: items, Total: len(items)}, nil
}

// Get devuelve un producto o ErrNotFound.
func (uc *StockUseCase) Get(ctx context.Context, shopID, productID string) (*dto.StockRecordResponse, error) {
	l, err := uc.registry.Ledger(ctx, shopID)
	if err != nil {
		return nil, err
	}
	rec, ok := l.Get(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
	}
	out := uc.toStockResponse(rec)
	return &out, nil
}

func (uc *StockUseCase) persist(ctx context.Context, shopID string) []dto.WarningResponse {
	return persistWithWarning(ctx, uc.registry, uc.metrics, uc.log, shopID)
}

func (uc *StockUseCase) toStockResponse(rec entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ProductID:  rec.ProductID,
		Quantity:   rec.Quantity,
		UnitPrice:  rec.UnitPrice,
		Price:      uc.money.WithUSD(rec.UnitPrice),
		DisplayTag: rec.DisplayTag,
		Discount:   rec.Discount,
		FinalPrice: uc.money.WithUSD(rec.EffectivePrice()),
		Expiration: rec.Expiration,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// persistWithWarning guarda el ledger y convierte el fallo en advertencia para el operador.
func persistWithWarning(ctx context.Context, registry *LedgerRegistry, metrics ports.LedgerMetrics, log *logger.Logger, shopID string) []dto.WarningResponse {
	if err := registry.Persist(ctx, shopID); err != nil {
		metrics.PersistFailed(shopID)
		log.Error().Err(err).Str("shop_id", shopID).Msg("persistencia del ledger falló; el estado en memoria sigue vigente")
		return []dto.WarningResponse{{Code: dto.WarningPersistenceFailed, Message: err.Error()}}
	}
	return nil
}
