package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carpet-shop-api/internal/application/analytics"
	"github.com/jhoicas/carpet-shop-api/internal/application/auth"
	"github.com/jhoicas/carpet-shop-api/internal/application/billing"
	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ItemUC    *inventory.ItemUseCase
	InvoiceUC *billing.InvoiceUseCase
	PDFUC     *billing.PDFUseCase
	CheckUC   *checks.CheckUseCase
	ReportUC  *analytics.ReportUseCase
	JWTSecret string
	// AdminMutations restringe a admin las escrituras sobre alfombras y facturas.
	AdminMutations bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/init-admin", authHandler.InitAdmin)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	mutate := func(c *fiber.Ctx) error { return c.Next() }
	if deps.AdminMutations {
		mutate = adminOnly
	}

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	// Alfombras
	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", mutate, itemHandler.Create)
	items.Get("/sizes", itemHandler.Sizes)
	items.Get("/export/pdf", itemHandler.ExportPDF)
	items.Get("/export/xlsx", itemHandler.ExportXLSX)
	items.Put("/operations/:opID", mutate, itemHandler.UpdateOperation)
	items.Delete("/operations/:opID", mutate, itemHandler.DeleteOperation)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", mutate, itemHandler.Update)
	items.Delete("/:id", mutate, itemHandler.Delete)
	items.Post("/:id/restore", mutate, itemHandler.Restore)
	items.Delete("/:id/permanent", adminOnly, itemHandler.DeletePermanent)
	items.Post("/:id/image", mutate, itemHandler.UploadImage)
	items.Post("/:id/operations", mutate, itemHandler.AddOperation)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", mutate, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", mutate, invoiceHandler.Update)
	invoices.Delete("/:id", mutate, invoiceHandler.Delete)
	invoices.Post("/:id/finalize", mutate, invoiceHandler.Finalize)
	invoices.Post("/:id/signature", mutate, invoiceHandler.UploadSignature)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Cheques
	checkHandler := NewCheckHandler(deps.CheckUC)
	checkGroup := protected.Group("/checks")
	checkGroup.Get("/", checkHandler.List)
	checkGroup.Post("/", checkHandler.Create)
	checkGroup.Get("/upcoming", checkHandler.Upcoming)
	checkGroup.Get("/:id", checkHandler.GetByID)
	checkGroup.Put("/:id", checkHandler.Update)
	checkGroup.Delete("/:id", checkHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports")
	reports.Post("/financial", reportHandler.Financial)
	reports.Get("/financial/:period", reportHandler.FinancialPeriod)
	reports.Get("/inventory", reportHandler.Inventory)
}
