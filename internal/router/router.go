// Package router builds the Echo instance and wires every route to its
// handler. All construction is dependency-injected from main; nothing in
// here touches globals.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/handler"
	"github.com/yhajali/aqari-backend/internal/middleware"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// New assembles the HTTP surface: repositories over the injected store
// handle, handlers over the repositories, and the route tree with its
// middleware chains. The Redis client may be nil; caching and rate limiting
// then degrade to pass-throughs.
func New(cfg config.Config, db *sql.DB, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	accounts := repository.NewAccountRepo(db)
	properties := repository.NewPropertyRepo(db)
	tenants := repository.NewTenantRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)
	financial := repository.NewFinancialRepo(db)
	rent := repository.NewRentRepo(db)
	dashboard := repository.NewDashboardRepo(db)
	shares := repository.NewShareRepo(db)
	admin := repository.NewAdminRepo(db)

	authH := handler.NewAuthHandler(cfg, accounts)
	propertyH := handler.NewPropertyHandler(properties, tenants)
	tenantH := handler.NewTenantHandler(tenants, properties)
	maintenanceH := handler.NewMaintenanceHandler(maintenance, properties, tenants)
	financialH := handler.NewFinancialHandler(financial, properties, tenants)
	rentH := handler.NewRentHandler(rent, properties, tenants)
	dashboardH := handler.NewDashboardHandler(dashboard)
	shareH := handler.NewShareHandler(cfg, shares, properties, tenants, maintenance, financial)
	bulkH := handler.NewBulkHandler(cfg, properties, tenants)
	exportH := handler.NewExportHandler(properties, tenants)
	fixturesH := handler.NewFixturesHandler(properties, tenants, maintenance, financial, admin)
	adminH := handler.NewAdminHandler(cfg, accounts, admin)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	dashCache := middleware.DashboardCache(config.LoadCacheConfig(), rdb)
	auth := middleware.JWTAuth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly(accounts)

	e.GET("/healthz", handler.Health)

	// Public: registration, the two logins and the token-keyed share fetch.
	e.POST("/api/register", authH.Register, limiter)
	e.POST("/api/login", authH.Login, limiter)
	e.POST("/api/admin/login", authH.AdminLogin, limiter)
	e.GET("/api/shared-data/:token", shareH.Fetch)

	api := e.Group("/api", auth)

	api.POST("/refresh-token", authH.Refresh)
	api.GET("/profile", authH.GetProfile)
	api.PUT("/profile/update", authH.UpdateProfile)

	api.POST("/properties", propertyH.Create)
	api.GET("/properties", propertyH.List)
	api.GET("/properties/:id", propertyH.Get)
	api.PUT("/properties/:id", propertyH.Update)
	api.DELETE("/properties/:id", propertyH.Delete)
	api.POST("/properties/:id/update-tenants-vacant", propertyH.MakeVacant)

	api.POST("/tenants", tenantH.Create)
	api.GET("/tenants", tenantH.List)
	api.GET("/tenants/:id", tenantH.Get)
	api.PUT("/tenants/:id", tenantH.Update)
	api.DELETE("/tenants/:id", tenantH.Delete)

	api.POST("/maintenance", maintenanceH.Create)
	api.GET("/maintenance", maintenanceH.List)
	api.GET("/maintenance/:id", maintenanceH.Get)
	api.PUT("/maintenance/:id", maintenanceH.Update)
	api.DELETE("/maintenance/:id", maintenanceH.Delete)

	api.POST("/financial", financialH.Create)
	api.GET("/financial", financialH.List)
	api.GET("/financial/:id", financialH.Get)
	api.PUT("/financial/:id", financialH.Update)
	api.DELETE("/financial/:id", financialH.Delete)

	api.POST("/rent-tracking", rentH.Create)
	api.GET("/rent-tracking", rentH.List)
	api.GET("/rent-tracking/:id", rentH.Get)
	api.PUT("/rent-tracking/:id", rentH.Update)

	api.GET("/dashboard", dashboardH.Summary, dashCache)

	api.POST("/share-data", shareH.Create)
	api.GET("/share-data", shareH.List)
	api.POST("/import-shared-data", shareH.Import)

	api.POST("/bulk-upload/properties", bulkH.ImportProperties)
	api.POST("/bulk-upload/tenants", bulkH.ImportTenants)
	api.POST("/bulk-upload/combined", bulkH.ImportCombined)
	api.GET("/export/properties", exportH.ExportProperties)
	api.GET("/export/tenants", exportH.ExportTenants)

	api.POST("/sample-data", fixturesH.SampleData)
	api.POST("/reset-database", fixturesH.ResetOwnData)

	adm := e.Group("/api/admin", auth, adminOnly)
	adm.GET("/users", adminH.ListUsers)
	adm.PUT("/users/:id", adminH.UpdateUser)
	adm.DELETE("/users/:id", adminH.DeleteUser)
	adm.POST("/users/:id/reset-password", adminH.ResetPassword)
	adm.POST("/users/:id/reset-data", adminH.ResetUserData)
	adm.POST("/reset-database", adminH.ResetAllData)
	adm.GET("/dashboard", adminH.Stats)
	adm.GET("/system-info", adminH.SystemInfo)

	return e
}
