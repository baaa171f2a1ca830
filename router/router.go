package router

import (
	"net/http"
	"time"

	"cartera/adminauth"
	"cartera/api"
	"cartera/config"
	_ "cartera/docs"
	"cartera/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires the HTTP surface: the JWT-protected /api/v1 app API and
// the cookie-session /admin console API.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())
	r.Use(middleware.RequestID())

	// Console API (cookie session)
	adminHandler := api.NewAdminHandler(cfg)
	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandler.AdminLogin)
		admin.POST("/logout", adminHandler.AdminLogout)

		adminAuth := admin.Group("")
		adminAuth.Use(AdminAuthMiddleware())
		{
			adminAuth.GET("/current-user", adminHandler.GetCurrentUserInfo)
			adminAuth.GET("/movements", adminHandler.ListMovements)
			adminAuth.POST("/movements", adminHandler.CreateMovement)
			adminAuth.PUT("/movements/:id", adminHandler.UpdateMovement)
			adminAuth.DELETE("/movements/:id", adminHandler.DeleteMovement)
			adminAuth.GET("/report", adminHandler.GetReport)
		}
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// App API (JWT)
	v1 := r.Group("/api/v1")
	{
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, 5*time.Minute), authHandler.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			accountHandler := api.NewAccountHandler()
			accounts := authorized.Group("/accounts")
			{
				accounts.GET("", accountHandler.List)
				accounts.POST("", accountHandler.Create)
				accounts.GET("/balances", accountHandler.Balances)
				accounts.GET("/balances/month-year", accountHandler.BalancesMonthYear)
				accounts.GET("/:id", accountHandler.Get)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.DELETE("/:id", accountHandler.Delete)
				accounts.PUT("/:id/restore", accountHandler.Restore)
				accounts.GET("/:id/movements", accountHandler.Movements)
			}

			categoryHandler := api.NewCategoryHandler(cfg)
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.GET("/groups", categoryHandler.Groups)
				categories.GET("/:id", categoryHandler.Get)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			eventHandler := api.NewEventHandler()
			events := authorized.Group("/events")
			{
				events.GET("", eventHandler.List)
				events.POST("", eventHandler.Create)
				events.GET("/active", eventHandler.Active)
				events.GET("/:id", eventHandler.Get)
				events.PUT("/:id", eventHandler.Update)
				events.DELETE("/:id", eventHandler.Delete)
			}

			movementHandler := api.NewMovementHandler(cfg)
			movements := authorized.Group("/movements")
			{
				movements.GET("", movementHandler.List)
				movements.POST("", movementHandler.Create)
				movements.POST("/transfer", movementHandler.Transfer)
				movements.GET("/:id", movementHandler.Get)
				movements.PUT("/:id", movementHandler.Update)
				movements.DELETE("/:id", movementHandler.Delete)
				movements.PUT("/:id/restore", movementHandler.Restore)
			}

			reportHandler := api.NewReportHandler(cfg)
			report := authorized.Group("/report")
			{
				report.GET("", reportHandler.Get)
				report.POST("/email", reportHandler.Email)
			}

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.CSV)
				export.GET("/xlsx", exportHandler.XLSX)
			}
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows the mobile client and the console frontend through.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// AdminAuthMiddleware guards the console routes behind the verified session
// cookie.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := adminauth.GetVerifiedAdminUserID(c); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "please log in",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
