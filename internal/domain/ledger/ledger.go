// Package ledger implementa el libro de stock de una tienda y la transacción de venta.
//
// El Ledger es dueño exclusivo de su estado: tabla de stock (en orden de inserción)
// e historial de compras por comprador. Todas las mutaciones toman el mismo mutex,
// por lo que el ciclo verificar → descontar → registrar de Sell es atómico y dos
// ventas concurrentes nunca pueden sobrevender el mismo producto.
package ledger

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// SaleInput parámetros de una venta. UnitPrice nil toma el precio vigente del producto
// (con su descuento aplicado).
type SaleInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
	BuyerID   string
	SellerID  string
	Note      string
	Timestamp time.Time
}

// Sale resultado de una venta. Remaining y DisplayTag se leen dentro del mismo
// candado que descuenta el stock, así reflejan exactamente esta venta.
type Sale struct {
	Purchase   entity.PurchaseRecord
	Remaining  int64
	DisplayTag string
}

// StockInput alta de stock con sus condiciones comerciales.
type StockInput struct {
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	DisplayTag string
	Discount   decimal.Decimal // fracción 0..1
	Expiration string
}

// Ledger libro de stock en memoria, seguro para uso concurrente.
type Ledger struct {
	mu      sync.RWMutex
	stock   map[string]*entity.StockRecord
	order   []string
	history map[string][]entity.PurchaseRecord
	ids     map[string]struct{}
	newID   func() string
	now     func() time.Time
}

// Option configura un Ledger.
type Option func(*Ledger)

// WithIDGenerator reemplaza el generador de correlation ids (útil en tests).
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// WithClock reemplaza el reloj usado para UpdatedAt y ventas sin timestamp.
func WithClock(fn func() time.Time) Option {
	return func(l *Ledger) { l.now = fn }
}

// New crea un ledger vacío.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		stock:   make(map[string]*entity.StockRecord),
		history: make(map[string][]entity.PurchaseRecord),
		ids:     make(map[string]struct{}),
		newID:   NewCorrelationID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NormalizeID es la forma canónica de un product_id: sin espacios en los extremos.
func NormalizeID(productID string) string {
	return strings.TrimSpace(productID)
}

// AddStock suma cantidad a un producto existente (sobrescribiendo precio y etiqueta)
// o crea el registro, sin descuento ni vencimiento. Devuelve el registro resultante.
func (l *Ledger) AddStock(productID string, quantity int64, unitPrice decimal.Decimal, displayTag string) (entity.StockRecord, error) {
	return l.AddStockItem(StockInput{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		DisplayTag: displayTag,
	})
}

// AddStockItem como AddStock, fijando además descuento y vencimiento. Igual que el
// precio y la etiqueta, ambos se sobrescriben en cada alta.
func (l *Ledger) AddStockItem(in StockInput) (entity.StockRecord, error) {
	productID := NormalizeID(in.ProductID)
	if productID == "" {
		return entity.StockRecord{}, fmt.Errorf("%w: product_id vacío", domain.ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		return entity.StockRecord{}, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidArgument)
	}
	if in.UnitPrice.IsNegative() {
		return entity.StockRecord{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidArgument)
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return entity.StockRecord{}, fmt.Errorf("%w: el descuento debe estar entre 0 y 1", domain.ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.stock[productID]
	if ok && rec.Quantity > math.MaxInt64-in.Quantity {
		return entity.StockRecord{}, fmt.Errorf("%w: %s excede la cantidad máxima", domain.ErrInvalidArgument, productID)
	}
	if !ok {
		rec = &entity.StockRecord{ProductID: productID}
		l.stock[productID] = rec
		l.order = append(l.order, productID)
	}
	rec.Quantity += in.Quantity
	rec.UnitPrice = in.UnitPrice
	rec.DisplayTag = in.DisplayTag
	rec.Discount = in.Discount
	rec.Expiration = strings.TrimSpace(in.Expiration)
	rec.UpdatedAt = l.now()
	return *rec, nil
}

// RemoveStock descuenta cantidad de un producto; si llega a 0 el registro se elimina.
// El registro devuelto refleja la cantidad restante (0 si se eliminó).
func (l *Ledger) RemoveStock(productID string, quantity int64) (entity.StockRecord, error) {
	if quantity <= 0 {
		return entity.StockRecord{}, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.takeLocked(NormalizeID(productID), quantity)
	if err != nil {
		return entity.StockRecord{}, err
	}
	return rec, nil
}

// Sell ejecuta la transacción de venta: verifica existencia y stock, descuenta,
// genera el correlation id y agrega el PurchaseRecord al historial del comprador.
// Si falla, el ledger queda intacto.
func (l *Ledger) Sell(in SaleInput) (Sale, error) {
	if in.Quantity <= 0 {
		return Sale{}, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.BuyerID) == "" {
		return Sale{}, fmt.Errorf("%w: buyer_id vacío", domain.ErrInvalidArgument)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return Sale{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidArgument)
	}
	productID := NormalizeID(in.ProductID)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.stock[productID]
	if !ok {
		return Sale{}, fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
	}
	if rec.Quantity < in.Quantity {
		return Sale{}, fmt.Errorf("%w: %s tiene %d, se pidieron %d",
			domain.ErrInsufficientStock, productID, rec.Quantity, in.Quantity)
	}
	price := rec.EffectivePrice()
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	tag := rec.DisplayTag
	ts := in.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}

	left, err := l.takeLocked(productID, in.Quantity)
	if err != nil {
		return Sale{}, err
	}
	purchase := entity.PurchaseRecord{
		CorrelationID: l.uniqueIDLocked(),
		ProductID:     productID,
		Quantity:      in.Quantity,
		UnitPrice:     price,
		BuyerID:       in.BuyerID,
		SellerID:      in.SellerID,
		Note:          in.Note,
		SoldAt:        ts,
	}
	l.history[in.BuyerID] = append(l.history[in.BuyerID], purchase)
	return Sale{Purchase: purchase, Remaining: left.Quantity, DisplayTag: tag}, nil
}

// UpdatePrice cambia el precio unitario de un producto. Devuelve el registro anterior y el nuevo.
func (l *Ledger) UpdatePrice(productID string, unitPrice decimal.Decimal) (before, after entity.StockRecord, err error) {
	if unitPrice.IsNegative() {
		return before, after, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidArgument)
	}

	productID = NormalizeID(productID)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.stock[productID]
	if !ok {
		return before, after, fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
	}
	before = *rec
	rec.UnitPrice = unitPrice
	rec.UpdatedAt = l.now()
	return before, *rec, nil
}

// Replace mueve cantidad de un producto a otro en una sola operación.
// Si el destino no existe se crea con el precio y la etiqueta del origen.
func (l *Ledger) Replace(fromID, toID string, quantity int64) (from, to entity.StockRecord, err error) {
	fromID, toID = NormalizeID(fromID), NormalizeID(toID)
	if quantity <= 0 || toID == "" || fromID == toID {
		return from, to, fmt.Errorf("%w: reemplazo inválido", domain.ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	src, ok := l.stock[fromID]
	if !ok {
		return from, to, fmt.Errorf("%w: %s", domain.ErrNotFound, fromID)
	}
	price, tag, discount, expiration := src.UnitPrice, src.DisplayTag, src.Discount, src.Expiration
	if dst, ok := l.stock[toID]; ok && dst.Quantity > math.MaxInt64-quantity {
		return from, to, fmt.Errorf("%w: %s excede la cantidad máxima", domain.ErrInvalidArgument, toID)
	}

	from, err = l.takeLocked(fromID, quantity)
	if err != nil {
		return entity.StockRecord{}, entity.StockRecord{}, err
	}
	dst, ok := l.stock[toID]
	if !ok {
		dst = &entity.StockRecord{ProductID: toID, UnitPrice: price, DisplayTag: tag, Discount: discount, Expiration: expiration}
		l.stock[toID] = dst
		l.order = append(l.order, toID)
	}
	dst.Quantity += quantity
	dst.UpdatedAt = l.now()
	return from, *dst, nil
}

// Get devuelve una copia del registro de un producto.
func (l *Ledger) Get(productID string) (entity.StockRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.stock[NormalizeID(productID)]
	if !ok {
		return entity.StockRecord{}, false
	}
	return *rec, true
}

// ListStock devuelve una copia de todos los registros en orden de inserción.
func (l *Ledger) ListStock() []entity.StockRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entity.StockRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.stock[id])
	}
	return out
}

// HistoryFor devuelve el historial del comprador (vacío si no tiene compras).
func (l *Ledger) HistoryFor(buyerID string) []entity.PurchaseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := l.history[buyerID]
	out := make([]entity.PurchaseRecord, len(records))
	copy(out, records)
	return out
}

// takeLocked descuenta quantity del producto y lo elimina al llegar a 0.
// Requiere l.mu tomado en escritura.
func (l *Ledger) takeLocked(productID string, quantity int64) (entity.StockRecord, error) {
	rec, ok := l.stock[productID]
	if !ok {
		return entity.StockRecord{}, fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
	}
	if rec.Quantity < quantity {
		return entity.StockRecord{}, fmt.Errorf("%w: %s tiene %d, se pidieron %d",
			domain.ErrInsufficientStock, productID, rec.Quantity, quantity)
	}
	rec.Quantity -= quantity
	rec.UpdatedAt = l.now()
	out := *rec
	if rec.Quantity == 0 {
		l.deleteLocked(productID)
	}
	return out, nil
}

func (l *Ledger) deleteLocked(productID string) {
	delete(l.stock, productID)
	for i, id := range l.order {
		if id == productID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *Ledger) uniqueIDLocked() string {
	for {
		id := l.newID()
		if _, taken := l.ids[id]; taken {
			continue
		}
		l.ids[id] = struct{}{}
		return id
	}
}
