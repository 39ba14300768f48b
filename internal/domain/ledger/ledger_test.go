package ledger_test

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Entregas-api/internal/domain"
	"github.com/jhoicas/Entregas-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testTS = time.Date(2024, 8, 10, 15, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("ID%06d", atomic.AddInt64(&n, 1))
	}
}

// ledgerConWidget devuelve un ledger con widget: quantity=5, unit_price=10.0.
func ledgerConWidget(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(ledger.WithIDGenerator(sequentialIDs()))
	_, err := l.AddStock("widget", 5, decimal.NewFromFloat(10.0), "🔧")
	require.NoError(t, err)
	return l
}

func sale(product string, qty int64) ledger.SaleInput {
	return ledger.SaleInput{
		ProductID: product,
		Quantity:  qty,
		BuyerID:   "42",
		SellerID:  "7",
		Note:      "thanks",
		Timestamp: testTS,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AddStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAddStock_EsAditivo(t *testing.T) {
	for _, tc := range []struct{ q1, q2 int64 }{{1, 1}, {3, 9}, {100, 1}, {7, 0}} {
		l := ledger.New()
		_, err := l.AddStock("p", tc.q1, decimal.NewFromInt(1), "")
		require.NoError(t, err)
		if tc.q2 > 0 {
			_, err = l.AddStock("p", tc.q2, decimal.NewFromInt(1), "")
			require.NoError(t, err)
		}
		rec, ok := l.Get("p")
		require.True(t, ok)
		assert.Equal(t, tc.q1+tc.q2, rec.Quantity)
	}
}

func TestAddStock_SobrescribePrecioYEtiqueta(t *testing.T) {
	l := ledgerConWidget(t)
	rec, err := l.AddStock("widget", 2, decimal.NewFromFloat(12.5), "⭐")
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.Quantity)
	assert.True(t, rec.UnitPrice.Equal(decimal.NewFromFloat(12.5)))
	assert.Equal(t, "⭐", rec.DisplayTag)
}

func TestAddStock_RechazaArgumentosInvalidos(t *testing.T) {
	l := ledger.New()
	cases := []struct {
		name  string
		id    string
		qty   int64
		price decimal.Decimal
	}{
		{"cantidad cero", "p", 0, decimal.NewFromInt(1)},
		{"cantidad negativa", "p", -3, decimal.NewFromInt(1)},
		{"precio negativo", "p", 1, decimal.NewFromInt(-1)},
		{"id vacío", "  ", 1, decimal.NewFromInt(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.AddStock(tc.id, tc.qty, tc.price, "")
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
	assert.Empty(t, l.ListStock(), "un add rechazado no debe crear registros")
}

func TestAddStock_PrecioCeroPermitido(t *testing.T) {
	l := ledger.New()
	_, err := l.AddStock("gratis", 1, decimal.Zero, "")
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveStock
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveStock_TodoElStockEliminaRegistro(t *testing.T) {
	l := ledgerConWidget(t)
	_, err := l.Sell(sale("widget", 3))
	require.NoError(t, err)

	rec, err := l.RemoveStock("widget", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)

	_, ok := l.Get("widget")
	assert.False(t, ok)
	assert.Empty(t, l.ListStock(), "widget no debe aparecer en list_stock")
}

func TestRemoveStock_Errores(t *testing.T) {
	l := ledgerConWidget(t)

	_, err := l.RemoveStock("gadget", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.RemoveStock("widget", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = l.RemoveStock("widget", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	rec, _ := l.Get("widget")
	assert.Equal(t, int64(5), rec.Quantity, "los errores no deben mutar el stock")
}

func TestRemoveStock_Parcial(t *testing.T) {
	l := ledgerConWidget(t)
	rec, err := l.RemoveStock("widget", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sell
// ──────────────────────────────────────────────────────────────────────────────

func TestSell_EscenarioWidget(t *testing.T) {
	l := ledgerConWidget(t)

	res, err := l.Sell(sale("widget", 3))
	require.NoError(t, err)
	p := res.Purchase

	assert.Equal(t, int64(2), res.Remaining)
	assert.Equal(t, "🔧", res.DisplayTag)
	assert.Equal(t, "widget", p.ProductID)
	assert.Equal(t, int64(3), p.Quantity)
	assert.True(t, p.UnitPrice.Equal(decimal.NewFromFloat(10.0)))
	assert.Equal(t, "42", p.BuyerID)
	assert.Equal(t, "7", p.SellerID)
	assert.Equal(t, "thanks", p.Note)
	assert.Equal(t, testTS, p.SoldAt)
	assert.NotEmpty(t, p.CorrelationID)
	assert.True(t, p.Total().Equal(decimal.NewFromInt(30)))

	stock := l.ListStock()
	require.Len(t, stock, 1)
	assert.Equal(t, int64(2), stock[0].Quantity)
}

func TestSell_InsuficienteNoMuta(t *testing.T) {
	l := ledgerConWidget(t)

	_, err := l.Sell(sale("widget", 10))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock := l.ListStock()
	require.Len(t, stock, 1)
	assert.Equal(t, int64(5), stock[0].Quantity)
	assert.Empty(t, l.HistoryFor("42"), "una venta fallida no debe registrar historial")
}

func TestSell_ProductoInexistente(t *testing.T) {
	l := ledgerConWidget(t)
	_, err := l.Sell(sale("gadget", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSell_ArgumentosInvalidos(t *testing.T) {
	l := ledgerConWidget(t)

	_, err := l.Sell(sale("widget", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	in := sale("widget", 1)
	in.BuyerID = ""
	_, err = l.Sell(in)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	neg := decimal.NewFromInt(-5)
	in = sale("widget", 1)
	in.UnitPrice = &neg
	_, err = l.Sell(in)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSell_AgotarEliminaRegistro(t *testing.T) {
	l := ledgerConWidget(t)
	_, err := l.Sell(sale("widget", 5))
	require.NoError(t, err)
	_, ok := l.Get("widget")
	assert.False(t, ok)
}

func TestSell_PrecioCapturadoAlVender(t *testing.T) {
	l := ledgerConWidget(t)

	first, err := l.Sell(sale("widget", 1))
	require.NoError(t, err)

	_, _, err = l.UpdatePrice("widget", decimal.NewFromInt(99))
	require.NoError(t, err)

	override := decimal.NewFromFloat(8.75)
	in := sale("widget", 1)
	in.UnitPrice = &override
	second, err := l.Sell(in)
	require.NoError(t, err)

	third, err := l.Sell(sale("widget", 1))
	require.NoError(t, err)

	history := l.HistoryFor("42")
	require.Len(t, history, 3)
	assert.True(t, history[0].UnitPrice.Equal(decimal.NewFromInt(10)), "el precio histórico no cambia")
	assert.Equal(t, first.Purchase.CorrelationID, history[0].CorrelationID)
	assert.True(t, second.Purchase.UnitPrice.Equal(override), "precio explícito de la venta")
	assert.True(t, third.Purchase.UnitPrice.Equal(decimal.NewFromInt(99)))
}

func TestSell_HistorialEnOrdenPorComprador(t *testing.T) {
	l := ledger.New(ledger.WithIDGenerator(sequentialIDs()))
	_, err := l.AddStock("a", 10, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	for i, buyer := range []string{"b1", "b2", "b1", "b1", "b2"} {
		in := sale("a", 1)
		in.BuyerID = buyer
		in.Note = fmt.Sprintf("n%d", i)
		_, err := l.Sell(in)
		require.NoError(t, err)
	}

	b1 := l.HistoryFor("b1")
	require.Len(t, b1, 3)
	assert.Equal(t, []string{"n0", "n2", "n3"}, []string{b1[0].Note, b1[1].Note, b1[2].Note})
	assert.Len(t, l.HistoryFor("b2"), 2)
	assert.Empty(t, l.HistoryFor("nadie"))
	assert.NotNil(t, l.HistoryFor("nadie"))
}

func TestSell_CorrelationIDUnicoAunqueElGeneradorRepita(t *testing.T) {
	seq := []string{"AAAA", "AAAA", "BBBB"}
	var i int
	l := ledger.New(ledger.WithIDGenerator(func() string {
		id := seq[i%len(seq)]
		i++
		return id
	}))
	_, err := l.AddStock("a", 2, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	p1, err := l.Sell(sale("a", 1))
	require.NoError(t, err)
	p2, err := l.Sell(sale("a", 1))
	require.NoError(t, err)

	assert.Equal(t, "AAAA", p1.Purchase.CorrelationID)
	assert.Equal(t, "BBBB", p2.Purchase.CorrelationID)
}

func TestSell_ConcurrenteNoSobrevende(t *testing.T) {
	const initial = 50
	l := ledger.New()
	_, err := l.AddStock("hot", initial, decimal.NewFromInt(3), "")
	require.NoError(t, err)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		sold       int64
		remainders []int64 // pares (antes, después) de cada venta
	)
	for i := 0; i < 200; i++ {
		qty := int64(i%3 + 1)
		wg.Add(1)
		go func(buyer int) {
			defer wg.Done()
			in := sale("hot", qty)
			in.BuyerID = fmt.Sprintf("buyer-%d", buyer%7)
			res, err := l.Sell(in)
			switch {
			case err == nil:
				atomic.AddInt64(&sold, qty)
				mu.Lock()
				remainders = append(remainders, res.Remaining+qty, res.Remaining)
				mu.Unlock()
			case !errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrNotFound):
				t.Errorf("error inesperado: %v", err)
			}
		}(i)
	}
	wg.Wait()

	remaining := int64(0)
	if rec, ok := l.Get("hot"); ok {
		remaining = rec.Quantity
	}
	assert.LessOrEqual(t, sold, int64(initial))
	assert.Equal(t, int64(initial), sold+remaining, "lo vendido más lo restante debe igualar el stock inicial")

	var recorded int64
	for b := 0; b < 7; b++ {
		for _, p := range l.HistoryFor(fmt.Sprintf("buyer-%d", b)) {
			recorded += p.Quantity
		}
	}
	assert.Equal(t, sold, recorded, "cada venta exitosa deja exactamente un registro")

	// Cada venta vio un "antes" distinto y los tramos encadenan de initial a remaining.
	seen := map[int64]bool{}
	for i := 0; i < len(remainders); i += 2 {
		before, after := remainders[i], remainders[i+1]
		assert.False(t, seen[before], "dos ventas observaron el mismo stock previo %d", before)
		seen[before] = true
		assert.GreaterOrEqual(t, after, int64(0))
	}
	assert.True(t, seen[initial], "la primera venta parte del stock inicial")
}

func TestSell_DevuelveRestanteYEtiquetaDeLaVenta(t *testing.T) {
	l := ledgerConWidget(t)

	res, err := l.Sell(sale("widget", 5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Equal(t, "🔧", res.DisplayTag, "la etiqueta del producto agotado se conserva en la venta")
}

func TestSell_AplicaDescuentoAlPrecioCapturado(t *testing.T) {
	l := ledger.New()
	rec, err := l.AddStockItem(ledger.StockInput{
		ProductID:  "widget",
		Quantity:   3,
		UnitPrice:  decimal.NewFromInt(200),
		Discount:   decimal.RequireFromString("0.25"),
		Expiration: " 2025-01-31 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", rec.Expiration)
	assert.True(t, rec.EffectivePrice().Equal(decimal.NewFromInt(150)))

	res, err := l.Sell(sale("widget", 2))
	require.NoError(t, err)
	assert.True(t, res.Purchase.UnitPrice.Equal(decimal.NewFromInt(150)))
	assert.True(t, res.Purchase.Total().Equal(decimal.NewFromInt(300)))

	override := decimal.NewFromInt(180)
	in := sale("widget", 1)
	in.UnitPrice = &override
	res, err = l.Sell(in)
	require.NoError(t, err)
	assert.True(t, res.Purchase.UnitPrice.Equal(override), "un precio explícito no recibe descuento")
}

func TestAddStockItem_RechazaDescuentoFueraDeRango(t *testing.T) {
	l := ledger.New()
	for _, d := range []string{"-0.1", "1.5"} {
		_, err := l.AddStockItem(ledger.StockInput{
			ProductID: "widget", Quantity: 1, UnitPrice: decimal.NewFromInt(1), Discount: decimal.RequireFromString(d),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, d)
	}
	assert.Empty(t, l.ListStock())
}

func TestAddStock_RechazaDesbordeDeCantidad(t *testing.T) {
	l := ledger.New()
	_, err := l.AddStock("widget", math.MaxInt64, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	_, err = l.AddStock("widget", 1, decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	rec, ok := l.Get("widget")
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), rec.Quantity, "el alta rechazada no modifica la cantidad")

	res, err := l.Sell(sale("widget", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), res.Remaining)
}

func TestReplace_RechazaDesbordeEnDestino(t *testing.T) {
	l := ledgerConWidget(t)
	_, err := l.AddStock("lleno", math.MaxInt64, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	_, _, err = l.Replace("widget", "lleno", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	rec, _ := l.Get("widget")
	assert.Equal(t, int64(5), rec.Quantity, "el origen no se descuenta si el destino desborda")
}

func TestProductID_SeNormalizaEnTodasLasOperaciones(t *testing.T) {
	l := ledger.New()
	_, err := l.AddStock(" widget ", 5, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	_, ok := l.Get("  widget")
	assert.True(t, ok)

	res, err := l.Sell(sale(" widget ", 1))
	require.NoError(t, err)
	assert.Equal(t, "widget", res.Purchase.ProductID)

	_, err = l.RemoveStock("widget ", 1)
	require.NoError(t, err)
	_, _, err = l.UpdatePrice(" widget", decimal.NewFromInt(12))
	require.NoError(t, err)
	_, _, err = l.Replace(" widget ", "gizmo", 1)
	require.NoError(t, err)
	_, _, err = l.Replace("widget", " widget ", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "mismo producto tras normalizar")

	rec, ok := l.Get("widget")
	require.True(t, ok)
	assert.Equal(t, int64(2), rec.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdatePrice / Replace
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePrice(t *testing.T) {
	l := ledgerConWidget(t)
	before, after, err := l.UpdatePrice("widget", decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, before.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, after.UnitPrice.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, int64(5), after.Quantity)

	_, _, err = l.UpdatePrice("gadget", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = l.UpdatePrice("widget", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestReplace_MueveCantidadYCreaDestino(t *testing.T) {
	l := ledgerConWidget(t)

	from, to, err := l.Replace("widget", "widget-v2", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), from.Quantity)
	assert.Equal(t, int64(5), to.Quantity)
	assert.True(t, to.UnitPrice.Equal(decimal.NewFromInt(10)), "el destino hereda el precio del origen")

	stock := l.ListStock()
	require.Len(t, stock, 1)
	assert.Equal(t, "widget-v2", stock[0].ProductID)
}

func TestReplace_Errores(t *testing.T) {
	l := ledgerConWidget(t)

	_, _, err := l.Replace("widget", "widget", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, _, err = l.Replace("gadget", "x", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = l.Replace("widget", "x", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, ok := l.Get("x")
	assert.False(t, ok, "un reemplazo fallido no debe crear el destino")
}

// ──────────────────────────────────────────────────────────────────────────────
// ListStock / Snapshot
// ──────────────────────────────────────────────────────────────────────────────

func TestListStock_OrdenDeInsercionYCopia(t *testing.T) {
	l := ledger.New()
	for _, id := range []string{"c", "a", "b"} {
		_, err := l.AddStock(id, 1, decimal.NewFromInt(1), "")
		require.NoError(t, err)
	}
	_, err := l.AddStock("a", 1, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	list := l.ListStock()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ProductID, list[1].ProductID, list[2].ProductID})

	list[0].Quantity = 999
	rec, _ := l.Get("c")
	assert.Equal(t, int64(1), rec.Quantity, "list_stock devuelve copias")
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	l := ledgerConWidget(t)
	_, err := l.AddStock("gadget", 4, decimal.NewFromFloat(2.5), "")
	require.NoError(t, err)
	_, err = l.Sell(sale("widget", 2))
	require.NoError(t, err)

	snap := l.Snapshot()
	restored, err := ledger.FromSnapshot(snap, ledger.WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	assert.Equal(t, l.ListStock(), restored.ListStock())
	assert.Equal(t, l.HistoryFor("42"), restored.HistoryFor("42"))

	// el id ya usado en el historial no se reutiliza tras restaurar
	p, err := restored.Sell(sale("widget", 1))
	require.NoError(t, err)
	assert.NotEqual(t, l.HistoryFor("42")[0].CorrelationID, p.Purchase.CorrelationID)
}

func TestRestore_RechazaSnapshotInvalido(t *testing.T) {
	l := ledgerConWidget(t)
	snap := l.Snapshot()
	snap.Stock = append(snap.Stock, snap.Stock[0])

	err := l.Restore(snap)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	rec, ok := l.Get("widget")
	require.True(t, ok, "un restore fallido conserva el estado previo")
	assert.Equal(t, int64(5), rec.Quantity)
}

func TestNewCorrelationID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := ledger.NewCorrelationID()
		assert.Len(t, id, ledger.CorrelationIDLength)
		assert.Regexp(t, "^[0-9A-F]+$", id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90)
}
