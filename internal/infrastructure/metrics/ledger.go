// Package metrics exporta contadores Prometheus del ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
)

var _ ports.LedgerMetrics = (*LedgerMetrics)(nil)

// LedgerMetrics contadores por tienda. Con registerer nil queda como no-op.
type LedgerMetrics struct {
	sales        *prometheus.CounterVec
	units        *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	notifyFailed *prometheus.CounterVec
	persistFail  *prometheus.CounterVec
	restock      *prometheus.CounterVec
}

// NewLedgerMetrics registra los contadores en reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	}
	m := &LedgerMetrics{
		sales:        counter("ledger_sales_total", "Ventas completadas.", "shop"),
		units:        counter("ledger_units_sold_total", "Unidades vendidas.", "shop"),
		rejected:     counter("ledger_sales_rejected_total", "Ventas rechazadas por motivo.", "shop", "reason"),
		notifyFailed: counter("ledger_notifications_failed_total", "DMs al comprador que no se entregaron.", "shop"),
		persistFail:  counter("ledger_persist_failures_total", "Guardados del ledger fallidos.", "shop"),
		restock:      counter("ledger_restock_alerts_total", "Alertas de reposición emitidas.", "shop"),
	}
	reg.MustRegister(m.sales, m.units, m.rejected, m.notifyFailed, m.persistFail, m.restock)
	return m
}

func (m *LedgerMetrics) SaleRecorded(shopID string, quantity int64) {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.WithLabelValues(normalizeLabel(shopID)).Inc()
	m.units.WithLabelValues(normalizeLabel(shopID)).Add(float64(quantity))
}

func (m *LedgerMetrics) SaleRejected(shopID, reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(shopID), normalizeLabel(reason)).Inc()
}

func (m *LedgerMetrics) NotificationFailed(shopID string) {
	if m == nil || m.notifyFailed == nil {
		return
	}
	m.notifyFailed.WithLabelValues(normalizeLabel(shopID)).Inc()
}

func (m *LedgerMetrics) PersistFailed(shopID string) {
	if m == nil || m.persistFail == nil {
		return
	}
	m.persistFail.WithLabelValues(normalizeLabel(shopID)).Inc()
}

func (m *LedgerMetrics) RestockAlert(shopID string) {
	if m == nil || m.restock == nil {
		return
	}
	m.restock.WithLabelValues(normalizeLabel(shopID)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
