package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Entregas-api/internal/application/auth"
	"github.com/jhoicas/Entregas-api/internal/application/inventory"
	"github.com/jhoicas/Entregas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *inventory.StockUseCase
	DeliveryUC *inventory.DeliveryUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); la tienda sale del token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyOperator := RequireRole(entity.RoleAdmin, entity.RoleSeller)
	adminOnly := RequireRole(entity.RoleAdmin)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", anyOperator, stockHandler.List)
	stock.Post("/", adminOnly, stockHandler.Add)
	stock.Post("/replace", adminOnly, stockHandler.Replace)
	stock.Get("/:product_id", anyOperator, stockHandler.Get)
	stock.Post("/:product_id/remove", adminOnly, stockHandler.Remove)
	stock.Put("/:product_id/price", adminOnly, stockHandler.UpdatePrice)

	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	protected.Post("/deliveries", anyOperator, deliveryHandler.Deliver)
	protected.Get("/history/:buyer_id", anyOperator, deliveryHandler.History)
	protected.Get("/history/:buyer_id/:correlation_id/receipt", anyOperator, deliveryHandler.Receipt)
}
