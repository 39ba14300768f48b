package ports

// LedgerMetrics contadores de negocio del ledger. Las implementaciones deben tolerar receptor nil.
type LedgerMetrics interface {
	SaleRecorded(shopID string, quantity int64)
	SaleRejected(shopID, reason string)
	NotificationFailed(shopID string)
	PersistFailed(shopID string)
	RestockAlert(shopID string)
}

// NopMetrics implementación vacía para tests y despliegues sin Prometheus.
type NopMetrics struct{}

func (NopMetrics) SaleRecorded(string, int64)  {}
func (NopMetrics) SaleRejected(string, string) {}
func (NopMetrics) NotificationFailed(string)   {}
func (NopMetrics) PersistFailed(string)        {}
func (NopMetrics) RestockAlert(string)         {}
