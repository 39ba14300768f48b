package inventory_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// fakeRepo repositorio de snapshots en memoria con fallos inyectables.
type fakeRepo struct {
	mu       sync.Mutex
	data     map[string]*entity.Snapshot
	saves    int
	loads    int
	failLoad bool
	failSave bool
	gates    map[string]chan struct{} // Load de esa tienda espera hasta que se cierre el canal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: map[string]*entity.Snapshot{}}
}

func (r *fakeRepo) Load(_ context.Context, shopID string) (*entity.Snapshot, error) {
	r.mu.Lock()
	gate := r.gates[shopID]
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.failLoad {
		return nil, errors.New("disco no disponible")
	}
	if s, ok := r.data[shopID]; ok {
		return s, nil
	}
	return entity.NewSnapshot(), nil
}

func (r *fakeRepo) Save(_ context.Context, shopID string, s *entity.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disco lleno")
	}
	r.saves++
	r.data[shopID] = s
	return nil
}

func (r *fakeRepo) saved(shopID string) *entity.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[shopID]
}

// fakeNotifier registra los mensajes enviados o falla si err != nil.
type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, _, _ string, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, content)
	return nil
}

// recordingEvents guarda los eventos del canal de log.
type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEvents) Log(_ context.Context, _ string, event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEvents) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

// fakeReceipts devuelve el correlation id como "PDF".
type fakeReceipts struct {
	last ports.Receipt
}

func (f *fakeReceipts) RenderReceipt(_ context.Context, r ports.Receipt) ([]byte, error) {
	f.last = r
	return []byte("%PDF-" + r.Purchase.CorrelationID), nil
}

// countingMetrics cuenta las llamadas relevantes.
type countingMetrics struct {
	ports.NopMetrics
	mu            sync.Mutex
	sales         int
	rejected      map[string]int
	notifyFailed  int
	persistFailed int
	restock       int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{rejected: map[string]int{}}
}

func (m *countingMetrics) SaleRecorded(string, int64) {
	m.mu.Lock()
	m.sales++
	m.mu.Unlock()
}

func (m *countingMetrics) SaleRejected(_ string, reason string) {
	m.mu.Lock()
	m.rejected[reason]++
	m.mu.Unlock()
}

func (m *countingMetrics) NotificationFailed(string) {
	m.mu.Lock()
	m.notifyFailed++
	m.mu.Unlock()
}

func (m *countingMetrics) PersistFailed(string) {
	m.mu.Lock()
	m.persistFailed++
	m.mu.Unlock()
}

func (m *countingMetrics) RestockAlert(string) {
	m.mu.Lock()
	m.restock++
	m.mu.Unlock()
}

// hold hace que Load(shopID) bloquee hasta llamar al func devuelto.
func (r *fakeRepo) hold(shopID string) (release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gates == nil {
		r.gates = map[string]chan struct{}{}
	}
	ch := make(chan struct{})
	r.gates[shopID] = ch
	return func() { close(ch) }
}

func (r *fakeRepo) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}
