// Package money formatea montos del ledger en la moneda de la tienda con su equivalente en USD.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea montos con separadores de miles según el locale.
type Formatter struct {
	unit    currency.Unit
	usdRate decimal.Decimal
	printer *message.Printer
}

// NewFormatter valida el código ISO 4217 y construye el formateador.
// usdRate son unidades de la moneda por 1 USD; 0 desactiva el equivalente en USD.
func NewFormatter(code string, usdRate float64) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("moneda inválida %q: %w", code, err)
	}
	if usdRate < 0 {
		return nil, fmt.Errorf("tasa USD negativa: %v", usdRate)
	}
	return &Formatter{
		unit:    unit,
		usdRate: decimal.NewFromFloat(usdRate),
		printer: message.NewPrinter(language.English),
	}, nil
}

// Currency devuelve el código ISO de la moneda.
func (f *Formatter) Currency() string { return f.unit.String() }

// Amount formatea "1,234.50 INR".
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f %s", d.Round(2).InexactFloat64(), f.unit.String())
}

// ToUSD convierte el monto a USD (false si no hay tasa configurada o la moneda ya es USD).
func (f *Formatter) ToUSD(d decimal.Decimal) (decimal.Decimal, bool) {
	if f.usdRate.IsZero() || f.unit == currency.USD {
		return decimal.Zero, false
	}
	return d.Div(f.usdRate).Round(2), true
}

// WithUSD formatea "30.00 INR / 0.36 USD".
func (f *Formatter) WithUSD(d decimal.Decimal) string {
	s := f.Amount(d)
	usd, ok := f.ToUSD(d)
	if !ok {
		return s
	}
	return s + " / " + f.printer.Sprintf("%.2f USD", usd.InexactFloat64())
}
