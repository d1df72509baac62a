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

	"github.com/jhoicas/carpet-shop-api/internal/application/analytics"
	"github.com/jhoicas/carpet-shop-api/internal/application/auth"
	"github.com/jhoicas/carpet-shop-api/internal/application/billing"
	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/export"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/imaging"
	infrapdf "github.com/jhoicas/carpet-shop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/carpet-shop-api/internal/interfaces/http"
	"github.com/jhoicas/carpet-shop-api/pkg/config"
	"github.com/jhoicas/carpet-shop-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("stock_policy", cfg.Inventory.StockPolicy).
		Str("cost_basis", cfg.Reports.CostBasis).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	blobs, err := newBlobStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de imágenes")
	}
	resizer := imaging.NewResizer(cfg.Storage.ImageMaxWidth)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	checkRepo := postgres.NewCheckRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedger(domaininv.ParseStockPolicy(cfg.Inventory.StockPolicy))
	itemUC := inventory.NewItemUseCase(itemRepo, txRunner, blobs, resizer, pdfGenerator, export.NewXLSXCatalog())
	invoiceUC := billing.NewInvoiceUseCase(txRunner, ledger, invoiceRepo, blobs, resizer, cfg.App.Location())
	pdfUC := billing.NewPDFUseCase(invoiceRepo, pdfGenerator)
	checkUC := checks.NewCheckUseCase(checkRepo, invoiceRepo, itemRepo, cfg.Checks.NotifyLeadDays)
	reportUC := analytics.NewReportUseCase(reportRepo, cfg.Reports.CostBasis)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutS) * time.Second,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.MaxUploadMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Carpet Shop API",
	}))

	if cfg.Storage.Driver == "local" {
		app.Static(cfg.Storage.PublicURL, cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ItemUC:         itemUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          pdfUC,
		CheckUC:        checkUC,
		ReportUC:       reportUC,
		JWTSecret:      cfg.JWT.Secret,
		AdminMutations: cfg.Auth.AdminMutations,
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

// newBlobStorage elige el driver de almacenamiento según STORAGE_DRIVER.
func newBlobStorage(ctx context.Context, cfg config.StorageConfig) (inventory.BlobStorage, error) {
	if cfg.Driver == "s3" {
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	local, err := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	return local, nil
}
