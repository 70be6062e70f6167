package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bizz_marketplace/internal/domain/offer/model"
	"bizz_marketplace/internal/domain/offer/repository"
	"bizz_marketplace/pkg/cache"
	"bizz_marketplace/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrInvalidExpiry  = errors.New("offer expiry must be in the future")
	ErrInvalidCap     = errors.New("max participants must be positive")
	ErrEmptyPlatforms = errors.New("at least one eligible platform is required")
)

// OfferService covers offer publishing, browsing and the expiry sweep.
type OfferService interface {
	CreateOffer(businessID, businessName, businessAddress string, in CreateOfferInput) (*model.Offer, error)
	GetOffer(id string) (*model.Offer, error)
	BrowseOffers(page, limit int) ([]model.Offer, int64, error)
	OffersByBusiness(businessID string, page, limit int) ([]model.Offer, int64, error)
	DeactivateOffer(businessID, offerID string) error
}

// CreateOfferInput is the validated creation payload.
type CreateOfferInput struct {
	Title           string
	Description     string
	Platforms       []string
	ValidUntil      time.Time
	MaxParticipants int
}

const (
	offerCacheKeyPrefix  = "offer:"
	browseCacheKeyPrefix = "offer_browse:"
	offerCacheTTL        = time.Minute * 5
	browseCacheTTL       = time.Minute * 1
)

type offerService struct {
	repo  repository.OfferRepository
	cache cache.CacheService
}

// NewOfferService creates the offer service.
func NewOfferService(repo repository.OfferRepository, c cache.CacheService) OfferService {
	return &offerService{repo: repo, cache: c}
}

func (s *offerService) offerCacheKey(id string) string {
	return offerCacheKeyPrefix + id
}

func (s *offerService) browseCacheKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", browseCacheKeyPrefix, page, limit)
}

func (s *offerService) invalidateBrowseCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePattern(context.Background(), browseCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("failed to invalidate browse cache", zap.Error(err))
	}
}

func (s *offerService) CreateOffer(businessID, businessName, businessAddress string, in CreateOfferInput) (*model.Offer, error) {
	if !in.ValidUntil.After(time.Now()) {
		return nil, ErrInvalidExpiry
	}
	if in.MaxParticipants <= 0 {
		return nil, ErrInvalidCap
	}
	if len(in.Platforms) == 0 {
		return nil, ErrEmptyPlatforms
	}

	platforms, err := json.Marshal(in.Platforms)
	if err != nil {
		return nil, err
	}

	offer := &model.Offer{
		BusinessID:      businessID,
		BusinessName:    businessName,
		BusinessAddress: businessAddress,
		Title:           in.Title,
		Description:     in.Description,
		Platforms:       platforms,
		ValidUntil:      in.ValidUntil,
		Active:          true,
		MaxParticipants: in.MaxParticipants,
	}

	if err := s.repo.Create(offer); err != nil {
		return nil, err
	}

	s.invalidateBrowseCache()
	return offer, nil
}

func (s *offerService) GetOffer(id string) (*model.Offer, error) {
	ctx := context.Background()

	if s.cache != nil {
		var cached model.Offer
		if err := s.cache.Get(ctx, s.offerCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	offer, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.offerCacheKey(id), offer, offerCacheTTL); err != nil {
			logger.Log.Warn("failed to cache offer", zap.String("offer_id", id), zap.Error(err))
		}
	}

	return offer, nil
}

func (s *offerService) BrowseOffers(page, limit int) ([]model.Offer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	ctx := context.Background()
	type browsePage struct {
		Offers []model.Offer `json:"offers"`
		Total  int64         `json:"total"`
	}

	if s.cache != nil {
		var cached browsePage
		if err := s.cache.Get(ctx, s.browseCacheKey(page, limit), &cached); err == nil {
			return cached.Offers, cached.Total, nil
		}
	}

	offers, total, err := s.repo.ListActive(offset, limit, time.Now())
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.browseCacheKey(page, limit), browsePage{Offers: offers, Total: total}, browseCacheTTL); err != nil {
			logger.Log.Warn("failed to cache browse page", zap.Error(err))
		}
	}

	return offers, total, nil
}

func (s *offerService) OffersByBusiness(businessID string, page, limit int) ([]model.Offer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListByBusiness(businessID, offset, limit)
}

// DeactivateOffer lets a business pull its own offer early. Ownership is
// checked here, not in the handler, so the rule holds for every caller.
func (s *offerService) DeactivateOffer(businessID, offerID string) error {
	offer, err := s.repo.GetByID(offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	if offer.BusinessID != businessID {
		return ErrOfferNotFound
	}

	if err := s.repo.Deactivate(offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(context.Background(), s.offerCacheKey(offerID)); err != nil {
			logger.Log.Warn("failed to invalidate offer cache", zap.String("offer_id", offerID), zap.Error(err))
		}
	}
	s.invalidateBrowseCache()
	return nil
}
