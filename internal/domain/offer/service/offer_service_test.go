package service

import (
	"context"
	"os"
	"testing"
	"time"

	"bizz_marketplace/internal/domain/offer/model"
	"bizz_marketplace/pkg/cache"
	"bizz_marketplace/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

// MockOfferRepository is a mock of OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(offer *model.Offer) error {
	args := m.Called(offer)
	return args.Error(0)
}

func (m *MockOfferRepository) GetByID(id string) (*model.Offer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListActive(offset, limit int, now time.Time) ([]model.Offer, int64, error) {
	args := m.Called(offset, limit, now)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Offer), args.Get(1).(int64), args.Error(2)
}

func (m *MockOfferRepository) ListByBusiness(businessID string, offset, limit int) ([]model.Offer, int64, error) {
	args := m.Called(businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Offer), args.Get(1).(int64), args.Error(2)
}

func (m *MockOfferRepository) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOfferRepository) DeactivateExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCache is a mock of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) InvalidatePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func validInput() CreateOfferInput {
	return CreateOfferInput{
		Title:           "Free latte for a story",
		Description:     "Post a story tagging us, get a free latte",
		Platforms:       []string{"instagram"},
		ValidUntil:      time.Now().Add(72 * time.Hour),
		MaxParticipants: 50,
	}
}

func TestCreateOffer(t *testing.T) {
	t.Run("Valid offer is created active", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		mockCache := new(MockCache)
		service := NewOfferService(mockRepo, mockCache)

		mockRepo.On("Create", mock.AnythingOfType("*model.Offer")).Return(nil)
		mockCache.On("InvalidatePattern", mock.Anything, "offer_browse:*").Return(nil)

		offer, err := service.CreateOffer("biz-1", "Blue Bottle Cafe", "12 Pine St", validInput())

		assert.NoError(t, err)
		assert.True(t, offer.Active)
		assert.Equal(t, "biz-1", offer.BusinessID)
		assert.Equal(t, "Blue Bottle Cafe", offer.BusinessName)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Expiry in the past", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil)

		in := validInput()
		in.ValidUntil = time.Now().Add(-time.Hour)

		_, err := service.CreateOffer("biz-1", "Blue Bottle Cafe", "", in)

		assert.ErrorIs(t, err, ErrInvalidExpiry)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Non-positive participant cap", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil)

		in := validInput()
		in.MaxParticipants = 0

		_, err := service.CreateOffer("biz-1", "Blue Bottle Cafe", "", in)

		assert.ErrorIs(t, err, ErrInvalidCap)
	})

	t.Run("No eligible platforms", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil)

		in := validInput()
		in.Platforms = nil

		_, err := service.CreateOffer("biz-1", "Blue Bottle Cafe", "", in)

		assert.ErrorIs(t, err, ErrEmptyPlatforms)
	})
}

func TestGetOffer(t *testing.T) {
	t.Run("Cache miss falls through to the store and fills the cache", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		mockCache := new(MockCache)
		service := NewOfferService(mockRepo, mockCache)

		offer := &model.Offer{Title: "Free latte for a story"}
		offer.ID = "offer-1"
		mockCache.On("Get", mock.Anything, "offer:offer-1", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByID", "offer-1").Return(offer, nil)
		mockCache.On("Set", mock.Anything, "offer:offer-1", offer, offerCacheTTL).Return(nil)

		got, err := service.GetOffer("offer-1")

		assert.NoError(t, err)
		assert.Equal(t, "offer-1", got.ID)
		mockCache.AssertExpectations(t)
	})

	t.Run("Unknown offer", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		mockCache := new(MockCache)
		service := NewOfferService(mockRepo, mockCache)

		mockCache.On("Get", mock.Anything, "offer:missing", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetOffer("missing")

		assert.ErrorIs(t, err, ErrOfferNotFound)
	})
}

func TestDeactivateOffer(t *testing.T) {
	t.Run("Owner can pull their offer early", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		mockCache := new(MockCache)
		service := NewOfferService(mockRepo, mockCache)

		offer := &model.Offer{BusinessID: "biz-1"}
		offer.ID = "offer-1"
		mockRepo.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("Deactivate", "offer-1").Return(nil)
		mockCache.On("Delete", mock.Anything, "offer:offer-1").Return(nil)
		mockCache.On("InvalidatePattern", mock.Anything, "offer_browse:*").Return(nil)

		err := service.DeactivateOffer("biz-1", "offer-1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Another business's offer reads as not found", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil)

		offer := &model.Offer{BusinessID: "biz-1"}
		offer.ID = "offer-1"
		mockRepo.On("GetByID", "offer-1").Return(offer, nil)

		err := service.DeactivateOffer("biz-2", "offer-1")

		assert.ErrorIs(t, err, ErrOfferNotFound)
		mockRepo.AssertNotCalled(t, "Deactivate", mock.Anything)
	})
}

func TestBrowseOffers(t *testing.T) {
	t.Run("Lists active offers with pagination defaults", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil)

		offers := []model.Offer{{Title: "Free latte for a story"}}
		mockRepo.On("ListActive", 0, 10, mock.AnythingOfType("time.Time")).Return(offers, int64(1), nil)

		got, total, err := service.BrowseOffers(0, 0)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, got, 1)
	})
}
