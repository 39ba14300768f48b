package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Entregas-api/internal/application/dto"
	"github.com/jhoicas/Entregas-api/internal/application/inventory"
)

// StockHandler administración y consulta del stock de la tienda del token.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Context(), shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Consultar un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "producto"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), shopID, c.Params("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Agregar stock
// @Description  Suma cantidad a un producto o lo crea; el precio y la etiqueta se reemplazan.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "product_id, quantity, unit_price, display_tag"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AddStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Add(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Remove godoc
// @Summary      Retirar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path  string                  true  "producto"
// @Param        body        body  dto.RemoveStockRequest  true  "quantity"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/remove [post]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RemoveStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Remove(c.Context(), shopID, userID, c.Params("product_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePrice godoc
// @Summary      Cambiar precio
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path  string                  true  "producto"
// @Param        body        body  dto.UpdatePriceRequest  true  "unit_price"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/price [put]
func (h *StockHandler) UpdatePrice(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdatePriceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdatePrice(c.Context(), shopID, userID, c.Params("product_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar stock
// @Description  Mueve cantidad de un producto a otro (el destino se crea con el precio del origen).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplaceStockRequest  true  "from_product_id, to_product_id, quantity"
// @Success      201   {object}  dto.ReplaceStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/replace [post]
func (h *StockHandler) Replace(c *fiber.Ctx) error {
	shopID, userID := GetShopID(c), GetUserID(c)
	if shopID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReplaceStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Replace(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
