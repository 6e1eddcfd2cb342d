// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"davrcash/internal/infrastructure/http/v1/handlers"
	"davrcash/internal/infrastructure/http/v1/middleware"
	"davrcash/pkg/logger"
)

// Permission strings checked by the route guards.
const (
	PermReportsSubmit = "reports:submit"
	PermReportsRead   = "reports:read"
	PermReportsStatus = "reports:status"
	PermCatalogRead   = "catalog:read"
	PermCatalogWrite  = "catalog:write"
	PermUsersManage   = "users:manage"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
	CORSOrigins  []string

	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Reports *handlers.ReportsHandler
	Catalog *handlers.CatalogHandler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	// Health endpoints (no auth required)
	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", cfg.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", cfg.Auth.Me)
		protected.POST("/auth/register",
			middleware.RequirePermission(PermUsersManage), cfg.Auth.Register)

		registerReportRoutes(protected, cfg)
		registerCatalogRoutes(protected, cfg)
	}

	return router
}

func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := cfg.Reports
	reports := rg.Group("/reports")
	{
		read := middleware.RequirePermission(PermReportsRead)
		submit := middleware.RequirePermission(PermReportsSubmit)

		// Channel previews recompute or read back depending on lock state.
		reports.POST("/click", read, h.Click)
		reports.POST("/payme", read, h.Payme)
		reports.POST("/cashier", read, h.Cashier)
		reports.POST("/express", read, h.Express)
		reports.POST("/arryt", read, h.Arryt)
		reports.GET("/is_editable", read, h.IsEditable)
		reports.POST("/editable-incomes", read, h.EditableIncomes)
		reports.POST("/editable-expenses", read, h.EditableExpenses)

		reports.POST("", submit, h.Submit)
		reports.PUT("/:id",
			middleware.RequirePermission(PermReportsStatus), h.SetStatus)

		reports.GET("", read, h.List)
		reports.GET("/my_reports", read, h.My)
		reports.GET("/:id", read, h.Get)
		reports.GET("/:id/items", read, h.Items)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := cfg.Catalog
	read := middleware.RequirePermission(PermCatalogRead)
	write := middleware.RequirePermission(PermCatalogWrite)

	catalogs := rg.Group("/catalogs")
	{
		orgs := catalogs.Group("/organizations")
		{
			orgs.POST("", write, h.CreateOrganization)
			orgs.PUT("/:id", write, h.UpdateOrganization)
			orgs.GET("", read, h.ListOrganizations)
			orgs.GET("/:id", read, h.GetOrganization)
			orgs.DELETE("/:id", write, h.DeleteOrganization)
		}

		terminals := catalogs.Group("/terminals")
		{
			terminals.POST("", write, h.CreateTerminal)
			terminals.PUT("/:id", write, h.UpdateTerminal)
			terminals.GET("", read, h.ListTerminals)
			terminals.GET("/:id", read, h.GetTerminal)
			terminals.DELETE("/:id", write, h.DeleteTerminal)
		}

		statuses := catalogs.Group("/statuses")
		{
			statuses.POST("", write, h.CreateStatus)
			statuses.PUT("/:id", write, h.UpdateStatus)
			statuses.GET("", read, h.ListStatuses)
		}
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Trace-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}
