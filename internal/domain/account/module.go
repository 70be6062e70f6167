package account

import (
	"bizz_marketplace/internal/domain/account/handler"
	"bizz_marketplace/internal/domain/account/repository"
	"bizz_marketplace/internal/domain/account/service"
	"bizz_marketplace/internal/pkg/middleware"
	"bizz_marketplace/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AccountModule wires registration, login and profiles.
type AccountModule struct{}

func init() {
	registry.Register(&AccountModule{})
}

func (m *AccountModule) Name() string {
	return "account"
}

func (m *AccountModule) Priority() int {
	return 1
}

func (m *AccountModule) Init(ctx *registry.ModuleContext) error {
	aRepo := repository.NewUserRepository(ctx.DB)
	aService := service.NewAccountService(aRepo)
	aHandler := handler.NewAccountHandler(aService)

	setupRoutes(ctx.Router, aHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AccountHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	accounts := r.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("/me", h.Me)
		accounts.PUT("/me", h.UpdateMe)
	}
}
