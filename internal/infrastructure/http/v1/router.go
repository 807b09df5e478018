// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ortoflow/internal/infrastructure/http/v1/handlers"
	"ortoflow/internal/infrastructure/http/v1/middleware"
	"ortoflow/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger  *logger.Logger
	Version string

	Numbering handlers.NumberingService
	Intake    handlers.IntakeService
	Products  handlers.ProductLister

	// HealthChecks are pinged by /health/ready.
	HealthChecks map[string]handlers.Pinger

	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")
	{
		registerNumberingRoutes(v1, base, cfg)
		registerOrderRoutes(v1, base, cfg)
		registerCatalogRoutes(v1, base, cfg)
	}

	return router
}

// registerNumberingRoutes registers document numbering endpoints.
func registerNumberingRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Numbering == nil {
		return
	}
	h := handlers.NewNumberingHandler(base, cfg.Numbering)
	numbering := rg.Group("/numbering/:type")
	{
		numbering.POST("/next", h.Next)
		numbering.GET("/:year", h.Current)
		numbering.PUT("/:year", h.Reset)
	}
}

// registerOrderRoutes registers free-text order endpoints.
func registerOrderRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Intake == nil {
		return
	}
	h := handlers.NewOrderHandler(base, cfg.Intake)
	orders := rg.Group("/orders")
	{
		orders.POST("/parse", h.Parse)
		orders.GET("/parses", h.History)
	}
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Products == nil {
		return
	}
	h := handlers.NewProductHandler(base, cfg.Products)
	rg.Group("/catalog").GET("/products", h.List)
}
