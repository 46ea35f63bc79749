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

	"github.com/shoplane/storefront_api/internal/config"
	"github.com/shoplane/storefront_api/internal/handler"
	"github.com/shoplane/storefront_api/internal/middleware"
	"github.com/shoplane/storefront_api/internal/search"
	"github.com/shoplane/storefront_api/internal/service"
	"github.com/shoplane/storefront_api/internal/worker"
	"github.com/shoplane/storefront_api/pkg/dummyjson"
)

// main is the application entrypoint for the storefront catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storefront api")

	// 3. Initialize upstream catalog client
	upstream := dummyjson.NewClient(dummyjson.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		MaxRPS:  cfg.Upstream.MaxRPS,
	})

	// 4. Initialize services
	normalizer := service.NewCatalogNormalizer()
	prices := service.NewPriceResolver()
	catalogSvc := service.NewCatalogService(upstream, normalizer, prices)

	// 5. Select search backend (process-wide, fail-soft)
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	gateway := search.New(startupCtx, cfg, catalogSvc)
	startupCancel()
	log.Info().Str("backend", gateway.BackendName()).Msg("search gateway ready")

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(upstream),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Search:  handler.NewSearchHandler(gateway),
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.PriceTierMiddleware())
	setupRoutes(router, handlers)

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start search index worker
	go worker.NewIndexWorker(catalogSvc, gateway, cfg.Search.IndexInterval).Start(ctx)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
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

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Search  *handler.SearchHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	catalog := router.Group("/v1/catalog")
	{
		catalog.GET("/products", handlers.Catalog.GetProducts)
		catalog.GET("/products/:idOrSlug", handlers.Catalog.GetProduct)
		catalog.GET("/categories", handlers.Catalog.GetCategories)
	}

	router.GET("/v1/search", handlers.Search.Search)
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
