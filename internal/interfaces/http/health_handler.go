package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger lo implementan los almacenes con conexión remota (sqlite, postgres, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde GET /health verificando el almacén del ledger.
type HealthHandler struct {
	service string
	driver  string
	pinger  Pinger
	timeout time.Duration
}

// NewHealthHandler construye el handler. Si store no implementa Pinger (memoria, archivos)
// solo se informa el estado del proceso.
func NewHealthHandler(service, driver string, store any) *HealthHandler {
	h := &HealthHandler{service: service, driver: driver, timeout: 2 * time.Second}
	if p, ok := store.(Pinger); ok {
		h.pinger = p
	}
	return h
}

// Check GET /health → 200 ok o 503 si el almacén no responde.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	body := fiber.Map{"status": "ok", "service": h.service, "store": h.driver}
	if h.pinger == nil {
		return c.JSON(body)
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["error"] = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.JSON(body)
}
