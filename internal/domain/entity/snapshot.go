package entity

// Snapshot es la foto completa de un ledger que se entrega a la persistencia:
// tabla de stock en orden de inserción e historial de compras por comprador.
type Snapshot struct {
	Stock   []StockRecord               `json:"stock"`
	History map[string][]PurchaseRecord `json:"history"`
}

// NewSnapshot devuelve un snapshot vacío listo para usar.
func NewSnapshot() *Snapshot {
	return &Snapshot{Stock: []StockRecord{}, History: map[string][]PurchaseRecord{}}
}

// PurchaseCount cuenta los registros de compra de todos los compradores.
func (s *Snapshot) PurchaseCount() int {
	n := 0
	for _, records := range s.History {
		n += len(records)
	}
	return n
}
