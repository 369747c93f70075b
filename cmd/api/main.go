package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/productmanager/manager_api/internal/config"
	"github.com/productmanager/manager_api/internal/database"
	"github.com/productmanager/manager_api/internal/handler"
	"github.com/productmanager/manager_api/internal/middleware"
	"github.com/productmanager/manager_api/internal/repository"
	"github.com/productmanager/manager_api/internal/service"
	"github.com/productmanager/manager_api/internal/worker"
)

// main is the application entrypoint for the product manager API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting product manager api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, cfg.DB.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 4. Initialize store and services
	store := repository.NewPostgresDocumentStore(db)
	productSvc := service.NewProductCatalogService(store)
	supplierSvc := service.NewSupplierDirectoryService(store)

	// 5. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(store),
		Product:  handler.NewProductHandler(productSvc),
		Supplier: handler.NewSupplierHandler(supplierSvc),
	}

	// 6. Initialize middleware
	rateLimiter := middleware.NewInvalidAuthRateLimiter(cfg.Auth.MaxInvalidAttempts, cfg.Auth.InvalidWindow)
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret, rateLimiter)

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start workers
	if cfg.Auth.InvalidWindow > 0 {
		go rateLimiter.Cleanup(ctx, cfg.Auth.InvalidWindow)
	}
	if cfg.Worker.TrashPurgeInterval > 0 {
		go worker.NewTrashPurgeWorker(supplierSvc, cfg.Worker.TrashPurgeInterval).Start(ctx)
	}

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Supplier *handler.SupplierHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		// Products
		v1.GET("/products", handlers.Product.ListProducts)
		v1.POST("/products", handlers.Product.CreateProduct)
		v1.GET("/products/:code", handlers.Product.GetProduct)
		v1.PUT("/products/:code", handlers.Product.UpdateProduct)
		v1.DELETE("/products/:code", handlers.Product.DeleteProduct)

		// Suppliers
		v1.GET("/suppliers", handlers.Supplier.ListSuppliers)
		v1.POST("/suppliers", handlers.Supplier.CreateSupplier)
		v1.GET("/suppliers/select", handlers.Supplier.ListSupplierOptions)
		v1.DELETE("/suppliers/trash", handlers.Supplier.CleanTrash)
		v1.GET("/suppliers/:code", handlers.Supplier.GetSupplier)
		v1.PUT("/suppliers/:code", handlers.Supplier.UpdateSupplier)
		v1.DELETE("/suppliers/:code", handlers.Supplier.ToggleSupplier)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
