package handler

import (
	"errors"
	"net/http"
	"strconv"

	accountModel "bizz_marketplace/internal/domain/account/model"
	"bizz_marketplace/internal/domain/ledger/service"
	"bizz_marketplace/internal/pkg/qr"
	"bizz_marketplace/pkg/response"
	"bizz_marketplace/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InfluencerLookup resolves the authenticated influencer account so its
// display name can be denormalized onto the participation and redemption.
type InfluencerLookup interface {
	GetByID(id string) (*accountModel.User, error)
}

type LedgerHandler struct {
	service  service.LedgerService
	accounts InfluencerLookup
}

func NewLedgerHandler(service service.LedgerService, accounts InfluencerLookup) *LedgerHandler {
	return &LedgerHandler{service: service, accounts: accounts}
}

type JoinOfferInput struct {
	Platform string `json:"platform" binding:"required,max=32"`
}

// JoinOffer enrolls the authenticated influencer in an offer.
func (h *LedgerHandler) JoinOffer(c *gin.Context) {
	var input JoinOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	influencerID := c.GetString("userID")
	account, err := h.accounts.GetByID(influencerID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.ErrAccountNotFound, "Influencer account not found")
		return
	}

	msg, err := h.service.JoinOffer(c.Param("id"), influencerID, account.DisplayName, input.Platform)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyJoined):
			response.Fail(c, response.ErrAlreadyJoined, "You have already joined this offer")
		case errors.Is(err, service.ErrOfferNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "Offer not found")
		case errors.Is(err, service.ErrOfferInactive):
			response.Fail(c, response.ErrOfferInactive, "This offer is no longer active")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, msg)
}

// GetRedemptionCode returns the influencer's code for an offer: the
// redemption ID plus the string payload the client renders as a QR code.
func (h *LedgerHandler) GetRedemptionCode(c *gin.Context) {
	redemption, err := h.service.GetOrCreateRedemptionCode(c.Param("id"), c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotJoined):
			response.Fail(c, response.ErrNotJoined, "Join the offer before requesting a code")
		case errors.Is(err, service.ErrOfferNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "Offer not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	payload, err := qr.Payload{
		RedemptionID: redemption.ID,
		OfferID:      redemption.OfferID,
		InfluencerID: redemption.InfluencerID,
		BusinessName: redemption.BusinessName,
	}.Encode()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"redemptionId": redemption.ID,
		"redeemed":     redemption.Redeemed,
		"payload":      payload,
	})
}

// RedemptionImage renders the influencer's own redemption code as a PNG.
func (h *LedgerHandler) RedemptionImage(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "size must be between 64 and 1024")
		return
	}

	redemption, err := h.service.RedemptionForDisplay(c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrRedemptionNotFound, "Redemption not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	png, err := qr.Image(qr.Payload{
		RedemptionID: redemption.ID,
		OfferID:      redemption.OfferID,
		InfluencerID: redemption.InfluencerID,
		BusinessName: redemption.BusinessName,
	}, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// VerifyRedemption is called by business staff after scanning a code.
func (h *LedgerHandler) VerifyRedemption(c *gin.Context) {
	result, err := h.service.VerifyAndRedeem(c.Param("id"), c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRedeemed):
			response.Fail(c, response.ErrAlreadyRedeemed, "This code has already been redeemed")
		case errors.Is(err, service.ErrRedemptionNotFound):
			response.Error(c, http.StatusNotFound, response.ErrRedemptionNotFound, "Unknown redemption code")
		case errors.Is(err, service.ErrBusinessMismatch):
			response.Error(c, http.StatusForbidden, response.ErrBusinessMismatch, "This code belongs to another business")
		case errors.Is(err, service.ErrOfferNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "Offer behind this code no longer exists")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// MyParticipations lists the influencer's joined offers.
func (h *LedgerHandler) MyParticipations(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	participations, total, err := h.service.MyParticipations(c.GetString("userID"), p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: participations, Total: total, Page: p.Page, Limit: limit})
}
