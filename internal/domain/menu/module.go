package menu

import (
	accountModel "bizz_marketplace/internal/domain/account/model"
	"bizz_marketplace/internal/domain/menu/handler"
	"bizz_marketplace/internal/domain/menu/repository"
	"bizz_marketplace/internal/domain/menu/service"
	"bizz_marketplace/internal/pkg/middleware"
	"bizz_marketplace/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// MenuModule wires business menu maintenance and display.
type MenuModule struct{}

func init() {
	registry.Register(&MenuModule{})
}

func (m *MenuModule) Name() string {
	return "menu"
}

func (m *MenuModule) Priority() int {
	return 30
}

func (m *MenuModule) Init(ctx *registry.ModuleContext) error {
	mRepo := repository.NewMenuRepository(ctx.DB)
	mService := service.NewMenuService(mRepo)
	mHandler := handler.NewMenuHandler(mService)

	setupRoutes(ctx.Router, mHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MenuHandler) {
	// Public menu display.
	r.GET("/businesses/:id/menu", h.BusinessMenu)

	// Menu maintenance for the business side.
	business := r.Group("/business/menu")
	business.Use(middleware.AuthMiddleware(), middleware.RequireRole(accountModel.RoleBusiness))
	{
		business.GET("", h.MyMenu)
		business.POST("", h.AddItem)
		business.PUT("/:id", h.UpdateItem)
		business.DELETE("/:id", h.RemoveItem)
	}
}
