package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Entregas-api/pkg/logger"
)

func TestWebhookNotifier_EnviaJSON(t *testing.T) {
	var got directMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	require.NoError(t, n.Notify(context.Background(), "guild-1", "42", "hola"))
	assert.Equal(t, directMessage{ShopID: "guild-1", BuyerID: "42", Content: "hola"}, got)
}

func TestWebhookNotifier_Non2xxEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Cannot send messages to this user", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), "g", "42", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestWebhookNotifier_SinURL(t *testing.T) {
	err := NewWebhookNotifier("", time.Second).Notify(context.Background(), "g", "42", "hola")
	assert.Error(t, err)
}

func TestAsyncEventLog_PublicaYCierra(t *testing.T) {
	var (
		mu     sync.Mutex
		events []logEvent
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev logEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}))
	defer srv.Close()

	sink := NewAsyncEventLog(srv.URL, 8, time.Second, logger.Nop())
	sink.Log(context.Background(), "guild-1", "uno")
	sink.Log(context.Background(), "guild-1", "dos")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sink.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "uno", events[0].Event)
	assert.Equal(t, "dos", events[1].Event)

	// después de cerrar, Log no entra en pánico ni publica
	sink.Log(context.Background(), "guild-1", "tres")
}

func TestAsyncEventLog_ColaLlenaDescarta(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	var buf bytes.Buffer
	sink := NewAsyncEventLog(srv.URL, 1, 5*time.Second, logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf}))

	start := time.Now()
	for i := 0; i < 10; i++ {
		sink.Log(context.Background(), "guild-1", "evento")
	}
	assert.Less(t, time.Since(start), time.Second, "Log no bloquea")

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sink.Close(ctx))
	assert.Contains(t, buf.String(), "evento descartado")
}

func TestLogNotifier_ReportaNoEntregado(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}))
	err := n.Notify(context.Background(), "g", "42", "hola")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "hola")

	NewLogEventLog(logger.Nop()).Log(context.Background(), "g", "evento")
}
