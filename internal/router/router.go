package router

import (
	"net/http"

	"github.com/YenChengLai/constellation-backend/internal/config"
	"github.com/YenChengLai/constellation-backend/internal/handler"
	"github.com/YenChengLai/constellation-backend/internal/middleware"
	"github.com/YenChengLai/constellation-backend/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine with every API route.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	auth := service.NewAuthService(db, cfg)
	groups := service.NewGroupService(db)
	categories := service.NewCategoryService(db)
	accounts := service.NewAccountService(db, groups)
	ledger := service.NewLedgerService(db, categories, accounts, groups)

	authHandler := handler.NewAuthHandler(auth)
	groupHandler := handler.NewGroupHandler(groups)
	accountHandler := handler.NewAccountHandler(accounts)
	categoryHandler := handler.NewCategoryHandler(categories)
	transactionHandler := handler.NewTransactionHandler(ledger)
	exportHandler := handler.NewExportHandler(ledger)
	adminHandler := handler.NewAdminHandler(auth)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// public auth endpoints
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/token/refresh", authHandler.Refresh)
	r.POST("/logout", authHandler.Logout)

	// everything below requires a bearer access token
	protected := r.Group("")
	protected.Use(
		middleware.AuthMiddleware(auth, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/groups", groupHandler.Create)
	protected.GET("/groups/me", groupHandler.ListMine)
	protected.GET("/groups/:id", groupHandler.Get)
	protected.POST("/groups/:id/members", groupHandler.AddMember)
	protected.DELETE("/groups/:id/members/:memberId", groupHandler.RemoveMember)

	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.PATCH("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Archive)

	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PATCH("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/summary", transactionHandler.Summary)
	protected.GET("/transactions/export/csv", exportHandler.ExportCSV)
	protected.GET("/transactions/export/xlsx", exportHandler.ExportXLSX)
	protected.PATCH("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired(auth))
	admin.GET("/users/unverified", adminHandler.ListUnverified)
	admin.PATCH("/users/:id/verify", adminHandler.VerifyUser)

	return r
}
