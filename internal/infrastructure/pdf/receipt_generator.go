// Package pdf genera el comprobante de compra en PDF.
//
// Layout A4:
//
//	┌──────────────────────────────────────────────┐
//	│  Tienda                  │  Pedido + Fecha   │
//	│  ──────────────────────────────────────────  │
//	│  Comprador / Vendedor                        │
//	│  Cant | Producto | P.Unit | Total            │
//	│  ──────────────────────────────────────────  │
//	│  TOTAL                                       │
//	│  QR del pedido + nota del producto           │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
)

var _ ports.ReceiptRenderer = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 88, Green: 101, Blue: 242}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa ports.ReceiptRenderer con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderReceipt(_ context.Context, r ports.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+r.Purchase.CorrelationID, true).
		WithAuthor(latin1(r.StoreName), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(r))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r ports.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(latin1(r.StoreName), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de entrega", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Purchase.CorrelationID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+r.SoldAt, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func partiesRow(r ports.Receipt) core.Row {
	return row.New(12).Add(
		col.New(6).Add(
			text.New("COMPRADOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(r.Purchase.BuyerID, props.Text{Size: 9, Top: 6}),
		),
		col.New(6).Add(
			text.New("ENTREGADO POR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.Purchase.SellerID, "-"), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func detailRow(r ports.Receipt) core.Row {
	product := r.Purchase.ProductID
	if tag := latin1(r.DisplayTag); tag != "" {
		product += " " + tag
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", r.Purchase.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(product, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(r.UnitPrice, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(r.Total, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func totalRow(r ports.Receipt) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(4).Add(text.New(r.Total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func footerRows(r ports.Receipt) []core.Row {
	note := "Gracias por tu compra."
	if n := latin1(r.Purchase.Note); n != "" {
		note = "Información del producto:\n" + n
	}
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(r.Purchase.CorrelationID, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(text.New(note, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray})),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// latin1 descarta los caracteres que la fuente helvetica del PDF no puede dibujar (emoji, CJK).
func latin1(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r > unicode.MaxLatin1 {
			return -1
		}
		return r
	}, s))
}
