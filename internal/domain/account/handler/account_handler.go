package handler

import (
	"errors"
	"net/http"

	"bizz_marketplace/internal/domain/account/service"
	"bizz_marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type RegisterInput struct {
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	Role            string   `json:"role" binding:"required,oneof=business influencer"`
	DisplayName     string   `json:"displayName" binding:"required,max=120"`
	BusinessName    string   `json:"businessName"`
	BusinessAddress string   `json:"businessAddress"`
	Handle          string   `json:"handle"`
	Platforms       []string `json:"platforms"`
	Bio             string   `json:"bio"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(service.RegisterInput{
		Email:           input.Email,
		Password:        input.Password,
		Role:            input.Role,
		DisplayName:     input.DisplayName,
		BusinessName:    input.BusinessName,
		BusinessAddress: input.BusinessAddress,
		Handle:          input.Handle,
		Platforms:       input.Platforms,
		Bio:             input.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountExists):
			response.Fail(c, response.ErrAccountExists, "An account with this email already exists")
		case errors.Is(err, service.ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, user)
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"token": token, "user": user})
}

func (h *AccountHandler) Me(c *gin.Context) {
	user, err := h.service.GetProfile(c.GetString("userID"))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAccountNotFound, "Account not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, user)
}

type UpdateProfileInput struct {
	DisplayName     string   `json:"displayName"`
	AvatarURL       string   `json:"avatarUrl"`
	BusinessName    string   `json:"businessName"`
	BusinessAddress string   `json:"businessAddress"`
	Handle          string   `json:"handle"`
	Platforms       []string `json:"platforms"`
	Bio             string   `json:"bio"`
}

func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.GetString("userID"), service.UpdateProfileInput{
		DisplayName:     input.DisplayName,
		AvatarURL:       input.AvatarURL,
		BusinessName:    input.BusinessName,
		BusinessAddress: input.BusinessAddress,
		Handle:          input.Handle,
		Platforms:       input.Platforms,
		Bio:             input.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAccountNotFound, "Account not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, user)
}
