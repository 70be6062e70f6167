package offer

import (
	accountModel "bizz_marketplace/internal/domain/account/model"
	accountRepo "bizz_marketplace/internal/domain/account/repository"
	"bizz_marketplace/internal/domain/offer/handler"
	"bizz_marketplace/internal/domain/offer/repository"
	"bizz_marketplace/internal/domain/offer/service"
	"bizz_marketplace/internal/pkg/middleware"
	"bizz_marketplace/internal/pkg/registry"
	"bizz_marketplace/pkg/cache"

	"github.com/gin-gonic/gin"
)

// OfferModule wires offer publishing and browsing.
type OfferModule struct{}

func init() {
	registry.Register(&OfferModule{})
}

func (m *OfferModule) Name() string {
	return "offer"
}

func (m *OfferModule) Priority() int {
	return 10
}

func (m *OfferModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOfferRepository(ctx.DB)
	oCache := cache.NewRedisCache(ctx.Redis)
	oService := service.NewOfferService(oRepo, oCache)
	aRepo := accountRepo.NewUserRepository(ctx.DB)
	oHandler := handler.NewOfferHandler(oService, aRepo)

	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OfferHandler) {
	// Public browse endpoints consumed by the influencer feed.
	offers := r.Group("/offers")
	{
		offers.GET("", h.BrowseOffers)
		offers.GET("/:id", h.GetOffer)
	}

	// Management endpoints for the business side.
	business := r.Group("/business/offers")
	business.Use(middleware.AuthMiddleware(), middleware.RequireRole(accountModel.RoleBusiness))
	{
		business.POST("", h.CreateOffer)
		business.GET("", h.MyOffers)
		business.POST("/:id/deactivate", h.DeactivateOffer)
	}
}
