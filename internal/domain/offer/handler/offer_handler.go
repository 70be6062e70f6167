package handler

import (
	"errors"
	"net/http"
	"time"

	accountModel "bizz_marketplace/internal/domain/account/model"
	"bizz_marketplace/internal/domain/offer/service"
	"bizz_marketplace/pkg/response"
	"bizz_marketplace/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BusinessLookup resolves the authenticated business account so its display
// name and address can be denormalized onto new offers.
type BusinessLookup interface {
	GetByID(id string) (*accountModel.User, error)
}

type OfferHandler struct {
	service  service.OfferService
	accounts BusinessLookup
}

func NewOfferHandler(service service.OfferService, accounts BusinessLookup) *OfferHandler {
	return &OfferHandler{service: service, accounts: accounts}
}

type CreateOfferInput struct {
	Title           string    `json:"title" binding:"required,max=120"`
	Description     string    `json:"description" binding:"required"`
	Platforms       []string  `json:"platforms" binding:"required,min=1"`
	ValidUntil      time.Time `json:"validUntil" binding:"required"`
	MaxParticipants int       `json:"maxParticipants" binding:"required,min=1"`
}

// CreateOffer publishes a new offer for the authenticated business.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var input CreateOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	businessID := c.GetString("userID")
	account, err := h.accounts.GetByID(businessID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.ErrAccountNotFound, "Business account not found")
		return
	}

	offer, err := h.service.CreateOffer(businessID, account.BusinessName, account.BusinessAddress, service.CreateOfferInput{
		Title:           input.Title,
		Description:     input.Description,
		Platforms:       input.Platforms,
		ValidUntil:      input.ValidUntil,
		MaxParticipants: input.MaxParticipants,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExpiry),
			errors.Is(err, service.ErrInvalidCap),
			errors.Is(err, service.ErrEmptyPlatforms):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, offer)
}

// BrowseOffers lists joinable offers for the influencer feed.
func (h *OfferHandler) BrowseOffers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	offers, total, err := h.service.BrowseOffers(p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: offers, Total: total, Page: p.Page, Limit: limit})
}

// GetOffer returns a single offer.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offer, err := h.service.GetOffer(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "Offer not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, offer)
}

// MyOffers lists the authenticated business's own offers.
func (h *OfferHandler) MyOffers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	offers, total, err := h.service.OffersByBusiness(c.GetString("userID"), p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: offers, Total: total, Page: p.Page, Limit: limit})
}

// DeactivateOffer pulls one of the business's offers early.
func (h *OfferHandler) DeactivateOffer(c *gin.Context) {
	err := h.service.DeactivateOffer(c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "Offer not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, "Offer deactivated")
}
