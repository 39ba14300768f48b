package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUSD_ConvierteConTasa(t *testing.T) {
	f, err := NewFormatter("INR", 83.2)
	require.NoError(t, err)

	assert.Equal(t, "30.00 INR / 0.36 USD", f.WithUSD(decimal.NewFromInt(30)))
	assert.Equal(t, "832.00 INR / 10.00 USD", f.WithUSD(decimal.NewFromInt(832)))
}

func TestWithUSD_SinTasaOMonedaUSD(t *testing.T) {
	f, err := NewFormatter("EUR", 0)
	require.NoError(t, err)
	assert.Equal(t, "12.50 EUR", f.WithUSD(decimal.NewFromFloat(12.5)))

	usd, err := NewFormatter("usd", 83.2)
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.Currency())
	_, ok := usd.ToUSD(decimal.NewFromInt(1))
	assert.False(t, ok)
}

func TestNewFormatter_CodigoInvalido(t *testing.T) {
	_, err := NewFormatter("ZZZ1", 1)
	assert.Error(t, err)
	_, err = NewFormatter("INR", -1)
	assert.Error(t, err)
}
