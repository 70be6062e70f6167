package handler

import (
	"errors"
	"net/http"

	"bizz_marketplace/internal/domain/menu/service"
	"bizz_marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	service service.MenuService
}

func NewMenuHandler(service service.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

type ItemInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=64"`
	PriceCents  int64  `json:"priceCents" binding:"required,min=1"`
	ImageURL    string `json:"imageUrl"`
	Available   *bool  `json:"available"`
}

type UpdateItemInput struct {
	Name        string `json:"name" binding:"max=120"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=64"`
	PriceCents  int64  `json:"priceCents" binding:"min=0"`
	ImageURL    string `json:"imageUrl"`
	Available   *bool  `json:"available"`
}

func (h *MenuHandler) AddItem(c *gin.Context) {
	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	item, err := h.service.AddItem(c.GetString("userID"), service.ItemInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, item)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	item, err := h.service.UpdateItem(c.GetString("userID"), c.Param("id"), service.ItemInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
	})
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrMenuItemNotFound, "Menu item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, item)
}

func (h *MenuHandler) RemoveItem(c *gin.Context) {
	if err := h.service.RemoveItem(c.GetString("userID"), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrMenuItemNotFound, "Menu item not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, "Menu item removed")
}

// BusinessMenu is the public menu of one business, shown in the influencer
// app next to the business's offers.
func (h *MenuHandler) BusinessMenu(c *gin.Context) {
	items, err := h.service.MenuOfBusiness(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, items)
}

// MyMenu is the authenticated business's own menu, including unavailable
// items.
func (h *MenuHandler) MyMenu(c *gin.Context) {
	items, err := h.service.MenuOfBusiness(c.GetString("userID"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, items)
}
