package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/internal/application/audit"
	"github.com/inventariox/inventariox-api/internal/application/auth"
	"github.com/inventariox/inventariox-api/internal/application/report"
	"github.com/inventariox/inventariox-api/internal/application/usecase"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	OrderUC    *usecase.OrderUseCase
	WasteUC    *usecase.WasteUseCase
	MovementUC *usecase.MovementUseCase
	AuditUC    *audit.UseCase
	ReportUC   *report.UseCase
	Hub        *ws.Hub
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Eliminar registros queda reservado a admin y encargado
	manager := RequireRole(entity.RoleAdmin, entity.RoleEncargado)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	movementHandler := NewMovementHandler(deps.MovementUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/adjust", productHandler.AdjustQuantity)
	products.Get("/:id/movements", movementHandler.ListByProduct)
	products.Delete("/:id", manager, productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", manager, supplierHandler.Delete)

	// Purchase orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/suggestions", orderHandler.Suggestions)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/whatsapp", orderHandler.WhatsAppLink)
	orders.Post("/:id/send", orderHandler.MarkSent)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Delete("/:id", manager, orderHandler.Delete)

	// Wastes (protegido)
	wastes := protected.Group("/wastes")
	wasteHandler := NewWasteHandler(deps.WasteUC)
	wastes.Post("/", wasteHandler.Create)
	wastes.Get("/", wasteHandler.List)
	wastes.Get("/:id", wasteHandler.GetByID)
	wastes.Delete("/:id", manager, wasteHandler.Delete)

	// Movements (protegido, solo lectura + limpieza)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Delete("/:id", manager, movementHandler.Delete)

	// Audit sessions (protegido)
	audits := protected.Group("/audits")
	auditHandler := NewAuditHandler(deps.AuditUC)
	audits.Post("/preview", auditHandler.Preview)
	audits.Post("/close", auditHandler.Close)
	audits.Get("/", auditHandler.List)
	audits.Get("/today", auditHandler.Today)
	audits.Get("/:id", auditHandler.GetByID)
	audits.Delete("/:id", manager, auditHandler.Delete)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/wastes", reportHandler.Wastes)
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/audits/:id", reportHandler.AuditSession)

	// Live updates (el token viaja por query o cookie según el cliente; el
	// canal solo difunde IDs, no datos sensibles)
	if deps.Hub != nil {
		app.Use("/ws", ws.Upgrade)
		app.Get("/ws", deps.Hub.Handler())
	}
}
