package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Entregas-api/internal/application/dto"
	"github.com/jhoicas/Entregas-api/internal/application/inventory"
)

// DeliveryHandler ventas, historial y comprobantes.
type DeliveryHandler struct {
	uc *inventory.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *inventory.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Deliver godoc
// @Summary      Entregar producto
// @Description  Descuenta stock, registra la compra y envía el DM al comprador.
// @Description  Si el DM o el guardado fallan la venta se mantiene y se informa en warnings.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliverRequest  true  "buyer_id, product_id, quantity, unit_price opcional, note"
// @Success      201   {object}  dto.DeliverResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Deliver(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.DeliverRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Deliver(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de compras
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        buyer_id  path  string  true  "comprador"
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/history/{buyer_id} [get]
func (h *DeliveryHandler) History(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.History(c.Context(), shopID, c.Params("buyer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una compra
// @Tags         deliveries
// @Security     Bearer
// @Produce      application/pdf
// @Param        buyer_id        path  string  true  "comprador"
// @Param        correlation_id  path  string  true  "pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/history/{buyer_id}/{correlation_id}/receipt [get]
func (h *DeliveryHandler) Receipt(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return unauthorized(c)
	}
	correlationID := c.Params("correlation_id")
	pdf, err := h.uc.Receipt(c.Context(), shopID, c.Params("buyer_id"), correlationID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pedido-`+correlationID+`.pdf"`)
	return c.Send(pdf)
}
