package handler

import (
	"card-optimizer/internal/auth"
	"card-optimizer/internal/middleware"
	"card-optimizer/internal/storage"

	"github.com/gin-gonic/gin"
)

// Routes collects what NewRouter mounts. Bot may be nil.
type Routes struct {
	Service Optimizer
	Cards   storage.CardStorage
	Tokens  *auth.TokenService
	Bot     UpdateHandler
}

func NewRouter(r Routes) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	opt := NewOptimizeHandler(r.Service)
	router.GET("/health", opt.Health)

	api := router.Group("/api")
	{
		api.POST("/optimize", opt.Optimize)
		api.GET("/cards", opt.Cards)
		api.GET("/transactions", opt.History)
	}

	admin := NewAdminHandler(r.Cards, r.Tokens)
	router.POST("/api/v1/admin/token", admin.Token)

	authMiddleware := middleware.NewAuthMiddleware(r.Tokens)
	v1 := router.Group("/api/v1/admin")
	v1.Use(authMiddleware.RequireAdmin())
	{
		v1.PUT("/cards", admin.UpsertCard)
		v1.DELETE("/cards/:id", admin.DeactivateCard)
	}

	if r.Bot != nil {
		router.POST("/telegram", TelegramWebhook(r.Bot))
	}
	return router
}
