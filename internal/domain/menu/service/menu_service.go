package service

import (
	"errors"

	"bizz_marketplace/internal/domain/menu/model"
	"bizz_marketplace/internal/domain/menu/repository"

	"gorm.io/gorm"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuService covers menu maintenance for businesses and menu display for
// influencers.
type MenuService interface {
	AddItem(businessID string, in ItemInput) (*model.MenuItem, error)
	UpdateItem(businessID, itemID string, in ItemInput) (*model.MenuItem, error)
	RemoveItem(businessID, itemID string) error
	MenuOfBusiness(businessID string) ([]model.MenuItem, error)
}

// ItemInput is the validated create/update payload.
type ItemInput struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	ImageURL    string
	Available   *bool
}

type menuService struct {
	repo repository.MenuRepository
}

// NewMenuService creates the menu service.
func NewMenuService(repo repository.MenuRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) AddItem(businessID string, in ItemInput) (*model.MenuItem, error) {
	item := &model.MenuItem{
		BusinessID:  businessID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		PriceCents:  in.PriceCents,
		ImageURL:    in.ImageURL,
		Available:   true,
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ownedItem loads an item and checks it belongs to the calling business.
// A foreign item is reported as not found, not as forbidden, so the API
// doesn't leak other businesses' item IDs.
func (s *menuService) ownedItem(businessID, itemID string) (*model.MenuItem, error) {
	item, err := s.repo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	if item.BusinessID != businessID {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

func (s *menuService) UpdateItem(businessID, itemID string, in ItemInput) (*model.MenuItem, error) {
	item, err := s.ownedItem(businessID, itemID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.PriceCents > 0 {
		item.PriceCents = in.PriceCents
	}
	if in.ImageURL != "" {
		item.ImageURL = in.ImageURL
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) RemoveItem(businessID, itemID string) error {
	item, err := s.ownedItem(businessID, itemID)
	if err != nil {
		return err
	}
	return s.repo.Delete(item)
}

func (s *menuService) MenuOfBusiness(businessID string) ([]model.MenuItem, error) {
	return s.repo.ListByBusiness(businessID)
}
