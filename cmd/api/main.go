package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Entregas-api/internal/application/auth"
	"github.com/jhoicas/Entregas-api/internal/application/inventory"
	"github.com/jhoicas/Entregas-api/internal/application/ports"
	inframetrics "github.com/jhoicas/Entregas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Entregas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/Entregas-api/internal/interfaces/http"
	"github.com/jhoicas/Entregas-api/pkg/config"
	"github.com/jhoicas/Entregas-api/pkg/logger"
	"github.com/jhoicas/Entregas-api/pkg/money"
)

func main() {
	_ = godotenv.Load() // .env opcional

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repo, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir almacenamiento del ledger")
	}
	defer closeStore()

	formatter, err := money.NewFormatter(cfg.Ledger.Currency, cfg.Ledger.USDRate)
	if err != nil {
		log.Fatal().Err(err).Msg("moneda del ledger")
	}
	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Ledger.Timezone).Msg("zona horaria desconocida, se usa UTC")
		loc = time.UTC
	}

	operators, err := auth.ParseOperators(cfg.Auth.Operators)
	if err != nil {
		log.Fatal().Err(err).Msg("AUTH_OPERATORS")
	}
	if len(operators) == 0 {
		log.Warn().Msg("AUTH_OPERATORS vacío: nadie podrá iniciar sesión")
	}

	// Destinos: relay de DM y canal de log; sin URL se registran en el log de la app.
	var notifier ports.Notifier = notify.NewLogNotifier(log.Named("dm"))
	if cfg.Notify.DMWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.DMWebhookURL, cfg.Notify.Timeout)
	}
	var events ports.EventLog = notify.NewLogEventLog(log.Named("event_log"))
	var asyncEvents *notify.AsyncEventLog
	if cfg.Notify.LogWebhookURL != "" {
		asyncEvents = notify.NewAsyncEventLog(cfg.Notify.LogWebhookURL, cfg.Notify.LogBuffer, cfg.Notify.Timeout, log.Named("event_log"))
		events = asyncEvents
	}

	ledgerMetrics := inframetrics.NewLedgerMetrics(prometheus.DefaultRegisterer)
	registry := inventory.NewLedgerRegistry(repo)
	stockUC := inventory.NewStockUseCase(registry, events, formatter, ledgerMetrics, log.Named("stock"))
	deliveryUC := inventory.NewDeliveryUseCase(registry, notifier, events, infrapdf.NewReceiptGenerator(), formatter, ledgerMetrics,
		inventory.DeliveryConfig{
			StoreName:        cfg.Ledger.StoreName,
			RestockThreshold: cfg.Ledger.RestockThreshold,
			Location:         loc,
		}, log.Named("delivery"))
	authUC := auth.NewAuthUseCase(operators, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Entregas API",
	}))

	app.Get("/health", httpRouter.NewHealthHandler(cfg.App.Name, cfg.Store.Driver, repo).Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:    stockUC,
		DeliveryUC: deliveryUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if asyncEvents != nil {
		if err := asyncEvents.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("eventos del canal de log sin publicar")
		}
	}

	log.Info().Msg("aplicación detenida")
}
