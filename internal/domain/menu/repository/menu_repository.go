package repository

import (
	"bizz_marketplace/internal/domain/menu/model"

	"gorm.io/gorm"
)

// MenuRepository handles menu item persistence.
type MenuRepository interface {
	Create(item *model.MenuItem) error
	GetByID(id string) (*model.MenuItem, error)
	ListByBusiness(businessID string) ([]model.MenuItem, error)
	Update(item *model.MenuItem) error
	Delete(item *model.MenuItem) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new repository instance.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(item *model.MenuItem) error {
	return r.db.Create(item).Error
}

func (r *menuRepository) GetByID(id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) ListByBusiness(businessID string) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.Where("business_id = ?", businessID).
		Order("category, name").
		Find(&items).Error
	return items, err
}

func (r *menuRepository) Update(item *model.MenuItem) error {
	return r.db.Save(item).Error
}

func (r *menuRepository) Delete(item *model.MenuItem) error {
	return r.db.Delete(item).Error
}
