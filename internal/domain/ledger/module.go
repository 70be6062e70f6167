package ledger

import (
	"time"

	accountModel "bizz_marketplace/internal/domain/account/model"
	accountRepo "bizz_marketplace/internal/domain/account/repository"
	"bizz_marketplace/internal/domain/ledger/handler"
	"bizz_marketplace/internal/domain/ledger/repository"
	"bizz_marketplace/internal/domain/ledger/service"
	offerRepo "bizz_marketplace/internal/domain/offer/repository"
	"bizz_marketplace/internal/pkg/config"
	"bizz_marketplace/internal/pkg/middleware"
	"bizz_marketplace/internal/pkg/registry"
	"bizz_marketplace/internal/pkg/sweeper"

	"github.com/gin-gonic/gin"
)

// LedgerModule wires the offer redemption ledger and starts the expiry
// sweeper.
type LedgerModule struct{}

var expirySweeper *sweeper.Sweeper

func init() {
	registry.Register(&LedgerModule{})
}

func (m *LedgerModule) Name() string {
	return "ledger"
}

// Priority puts the ledger after the offer module whose routes it extends.
func (m *LedgerModule) Priority() int {
	return 20
}

func (m *LedgerModule) Init(ctx *registry.ModuleContext) error {
	lRepo := repository.NewLedgerRepository(ctx.DB)
	oRepo := offerRepo.NewOfferRepository(ctx.DB)
	aRepo := accountRepo.NewUserRepository(ctx.DB)
	lService := service.NewLedgerService(lRepo, oRepo)
	lHandler := handler.NewLedgerHandler(lService, aRepo)

	setupRoutes(ctx.Router, lHandler)

	interval := time.Duration(config.GlobalConfig.Sweep.IntervalSeconds) * time.Second
	expirySweeper = sweeper.New(lService, interval)
	expirySweeper.Start()

	return nil
}

// Shutdown stops the expiry sweeper and waits for the in-flight sweep.
func Shutdown() {
	if expirySweeper != nil {
		expirySweeper.Stop()
	}
}

func setupRoutes(r *gin.Engine, h *handler.LedgerHandler) {
	// Influencer side: join, list joined offers, display codes.
	influencer := r.Group("")
	influencer.Use(middleware.AuthMiddleware(), middleware.RequireRole(accountModel.RoleInfluencer))
	{
		influencer.POST("/offers/:id/join", h.JoinOffer)
		influencer.GET("/offers/:id/code", h.GetRedemptionCode)
		influencer.GET("/redemptions/:id/image", h.RedemptionImage)
		influencer.GET("/participations", h.MyParticipations)
	}

	// Business side: scan and consume codes at the counter.
	business := r.Group("")
	business.Use(middleware.AuthMiddleware(), middleware.RequireRole(accountModel.RoleBusiness))
	{
		business.POST("/redemptions/:id/verify", h.VerifyRedemption)
	}
}
