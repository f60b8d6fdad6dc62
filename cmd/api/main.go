package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/inventariox/inventariox-api/internal/application/audit"
	"github.com/inventariox/inventariox-api/internal/application/auth"
	"github.com/inventariox/inventariox-api/internal/application/report"
	"github.com/inventariox/inventariox-api/internal/application/usecase"
	"github.com/inventariox/inventariox-api/internal/infrastructure/export"
	infrapdf "github.com/inventariox/inventariox-api/internal/infrastructure/pdf"
	"github.com/inventariox/inventariox-api/internal/infrastructure/postgres"
	"github.com/inventariox/inventariox-api/internal/infrastructure/ws"
	httpRouter "github.com/inventariox/inventariox-api/internal/interfaces/http"
	"github.com/inventariox/inventariox-api/pkg/config"
	"github.com/inventariox/inventariox-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	wasteRepo := postgres.NewWasteRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	sessionRepo := postgres.NewAuditSessionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Hub WebSocket: los casos de uso notifican cambios a los clientes en vivo.
	hub := ws.NewHub(log)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, txRunner, hub)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, supplierRepo, productRepo, txRunner, hub)
	wasteUC := usecase.NewWasteUseCase(wasteRepo, productRepo, txRunner, hub)
	movementUC := usecase.NewMovementUseCase(movementRepo, hub)

	// Conciliación de inventario: el aplicador hace el fan-out de ajustes por
	// línea y el caso de uso persiste la sesión antes de aplicar.
	applier := audit.NewApplier(productRepo, wasteRepo, movementRepo)
	auditUC := audit.NewUseCase(sessionRepo, productRepo, applier, hub)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := report.NewUseCase(productRepo, wasteRepo, movementRepo, sessionRepo,
		pdfGenerator, map[string]report.TableExporter{
			"csv":  export.NewCSVExporter(),
			"xlsx": export.NewExcelExporter(),
		})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "InventarioX API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		OrderUC:    orderUC,
		WasteUC:    wasteUC,
		MovementUC: movementUC,
		AuditUC:    auditUC,
		ReportUC:   reportUC,
		Hub:        hub,
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

	log.Info().Msg("aplicación detenida")
}
