package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
	"github.com/jhoicas/Entregas-api/pkg/logger"
)

var _ ports.EventLog = (*AsyncEventLog)(nil)

type logEvent struct {
	ShopID string    `json:"shop_id"`
	Event  string    `json:"event"`
	At     time.Time `json:"at"`
}

// AsyncEventLog cola acotada drenada por una goroutine que publica cada evento en el
// webhook del canal de log. Log nunca bloquea: con la cola llena el evento se descarta.
type AsyncEventLog struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
	queue      chan logEvent
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	closed     bool
}

// NewAsyncEventLog arranca el drenado. Llamar Close al apagar para vaciar la cola.
func NewAsyncEventLog(url string, buffer int, timeout time.Duration, log *logger.Logger) *AsyncEventLog {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	e := &AsyncEventLog{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		queue:      make(chan logEvent, buffer),
		done:       make(chan struct{}),
	}
	go e.run()
	return e
}

// Log encola el evento.
func (e *AsyncEventLog) Log(_ context.Context, shopID, event string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.queue <- logEvent{ShopID: shopID, Event: event, At: time.Now().UTC()}:
	default:
		e.log.Warn().Str("shop_id", shopID).Msg("canal de log saturado; evento descartado")
	}
}

// Close deja de aceptar eventos y espera a que se publiquen los encolados o a que ctx expire.
func (e *AsyncEventLog) Close(ctx context.Context) error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		close(e.queue)
		e.mu.Unlock()
	})
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *AsyncEventLog) run() {
	defer close(e.done)
	for ev := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.httpClient.Timeout)
		if err := postJSON(ctx, e.httpClient, e.url, ev); err != nil {
			e.log.Warn().Err(err).Str("shop_id", ev.ShopID).Msg("no se pudo publicar en el canal de log")
		}
		cancel()
	}
}
