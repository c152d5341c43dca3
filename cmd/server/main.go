package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	amazonrouter "github.com/covercraft/covershop/internal/amazon/router"
	amazonservice "github.com/covercraft/covershop/internal/amazon/service"
	catalogrouter "github.com/covercraft/covershop/internal/catalog/router"
	catalogservice "github.com/covercraft/covershop/internal/catalog/service"
	"github.com/covercraft/covershop/internal/config"
	"github.com/covercraft/covershop/internal/database"
	"github.com/covercraft/covershop/internal/middleware"
	"github.com/covercraft/covershop/internal/storage"
)

func main() {
	// .env values override the environment in local development; absence is
	// not an error.
	if err := godotenv.Overload(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("storage configuration",
		"type", cfg.Storage.Type,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
	)

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	driver, err := storage.NewDriverFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage driver: %v", err)
	}
	files := storage.NewFileStore(driver)

	// Services
	catalogSvc := catalogservice.NewCatalogService(db, files)
	materialSvc := catalogservice.NewMaterialService(db)
	orderSvc := catalogservice.NewOrderService(db)
	optionSvc := catalogservice.NewOptionService(db)
	pricingSvc := catalogservice.NewPricingService(db, &cfg.Pricing)
	templateSvc := amazonservice.NewTemplateService(db, files)
	importer := amazonservice.NewTemplateImporter(db, files)
	exportSvc := amazonservice.NewExportService(db)

	// Routes
	mux := http.NewServeMux()
	catalogrouter.NewCatalogRouter(catalogSvc).Register(mux)
	catalogrouter.NewMaterialRouter(materialSvc).Register(mux)
	catalogrouter.NewOrderRouter(orderSvc).Register(mux)
	catalogrouter.NewOptionRouter(optionSvc, pricingSvc).Register(mux)
	amazonrouter.NewTemplateRouter(templateSvc, importer).Register(mux)
	amazonrouter.NewExportRouter(exportSvc).Register(mux)
	storage.NewHTTPHandler(files).Register(mux)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
