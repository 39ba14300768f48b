// Package notify implementa los destinos de mensajes: DM al comprador y canal de log.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Entregas-api/internal/application/ports"
)

var _ ports.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier envía el DM al relay HTTP del bot (POST JSON).
// Cualquier respuesta fuera de 2xx cuenta como no entregado.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier construye el notificador. timeout acota cada llamada.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{url: url, httpClient: &http.Client{Timeout: timeout}}
}

type directMessage struct {
	ShopID  string `json:"shop_id"`
	BuyerID string `json:"buyer_id"`
	Content string `json:"content"`
}

// Notify publica el mensaje para el comprador.
func (n *WebhookNotifier) Notify(ctx context.Context, shopID, buyerID, content string) error {
	return postJSON(ctx, n.httpClient, n.url, directMessage{ShopID: shopID, BuyerID: buyerID, Content: content})
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	if url == "" {
		return fmt.Errorf("notify: URL de webhook no configurada")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: serializar: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: crear request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("notify: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("notify: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("notify: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
