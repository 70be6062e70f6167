package service

import (
	"errors"
	"testing"
	"time"

	"bizz_marketplace/internal/domain/ledger/model"
	"bizz_marketplace/internal/domain/ledger/repository"
	offerModel "bizz_marketplace/internal/domain/offer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockLedgerRepository is a mock of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetParticipation(offerID, influencerID string) (*model.Participation, error) {
	args := m.Called(offerID, influencerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockLedgerRepository) GetRedemption(id string) (*model.Redemption, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockLedgerRepository) CreateJoin(p *model.Participation, r *model.Redemption) error {
	args := m.Called(p, r)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecreateRedemption(r *model.Redemption) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockLedgerRepository) Redeem(redemptionID string, now time.Time) error {
	args := m.Called(redemptionID, now)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByInfluencer(influencerID string, offset, limit int) ([]model.Participation, int64, error) {
	args := m.Called(influencerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Participation), args.Get(1).(int64), args.Error(2)
}

// MockOfferStore is a mock of OfferStore
type MockOfferStore struct {
	mock.Mock
}

func (m *MockOfferStore) GetByID(id string) (*offerModel.Offer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offerModel.Offer), args.Error(1)
}

func (m *MockOfferStore) DeactivateExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func createTestOffer(id, businessID string) *offerModel.Offer {
	offer := &offerModel.Offer{
		BusinessID:   businessID,
		BusinessName: "Blue Bottle Cafe",
		Title:        "Free latte for a story",
		Description:  "Post a story tagging us, get a free latte",
		ValidUntil:   time.Now().Add(48 * time.Hour),
		Active:       true,
	}
	offer.ID = id
	return offer
}

func createTestRedemption(id, offerID, businessID, influencerID string) *model.Redemption {
	return &model.Redemption{
		ID:             id,
		OfferID:        offerID,
		BusinessID:     businessID,
		BusinessName:   "Blue Bottle Cafe",
		InfluencerID:   influencerID,
		InfluencerName: "jane_eats",
		Redeemed:       false,
		CreatedAt:      time.Now(),
	}
}

func TestJoinOffer(t *testing.T) {
	t.Run("First join succeeds and pairs participation with redemption", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(nil, gorm.ErrRecordNotFound)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)

		var gotParticipation *model.Participation
		var gotRedemption *model.Redemption
		mockRepo.On("CreateJoin", mock.AnythingOfType("*model.Participation"), mock.AnythingOfType("*model.Redemption")).
			Run(func(args mock.Arguments) {
				gotParticipation = args.Get(0).(*model.Participation)
				gotRedemption = args.Get(1).(*model.Redemption)
			}).Return(nil)

		msg, err := service.JoinOffer("offer-1", "inf-1", "jane_eats", "instagram")

		assert.NoError(t, err)
		assert.Contains(t, msg, "Free latte for a story")
		assert.Contains(t, msg, "Blue Bottle Cafe")

		// The participation and its code are minted under one shared ID.
		assert.NotEmpty(t, gotRedemption.ID)
		assert.Equal(t, gotRedemption.ID, gotParticipation.RedemptionID)
		assert.Equal(t, "biz-1", gotParticipation.BusinessID)
		assert.Equal(t, "biz-1", gotRedemption.BusinessID)
		assert.False(t, gotRedemption.Redeemed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Second join of the same offer is rejected", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		existing := &model.Participation{OfferID: "offer-1", InfluencerID: "inf-1", RedemptionID: "red-1"}
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(existing, nil)

		_, err := service.JoinOffer("offer-1", "inf-1", "jane_eats", "instagram")

		assert.ErrorIs(t, err, ErrAlreadyJoined)
		mockRepo.AssertNotCalled(t, "CreateJoin", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent duplicate join loses on the unique index", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(nil, gorm.ErrRecordNotFound)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("CreateJoin", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := service.JoinOffer("offer-1", "inf-1", "jane_eats", "instagram")

		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("Unknown offer", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		mockRepo.On("GetParticipation", "missing", "inf-1").Return(nil, gorm.ErrRecordNotFound)
		mockOffers.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.JoinOffer("missing", "inf-1", "jane_eats", "instagram")

		assert.ErrorIs(t, err, ErrOfferNotFound)
	})

	t.Run("Deactivated offer cannot be joined", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		offer := createTestOffer("offer-1", "biz-1")
		offer.Active = false
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(nil, gorm.ErrRecordNotFound)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)

		_, err := service.JoinOffer("offer-1", "inf-1", "jane_eats", "instagram")

		assert.ErrorIs(t, err, ErrOfferInactive)
		mockRepo.AssertNotCalled(t, "CreateJoin", mock.Anything, mock.Anything)
	})

	t.Run("Expired offer cannot be joined", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		offer := createTestOffer("offer-1", "biz-1")
		offer.ValidUntil = time.Now().Add(-time.Hour)
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(nil, gorm.ErrRecordNotFound)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)

		_, err := service.JoinOffer("offer-1", "inf-1", "jane_eats", "instagram")

		assert.ErrorIs(t, err, ErrOfferInactive)
	})
}

func TestGetOrCreateRedemptionCode(t *testing.T) {
	t.Run("Returns the linked redemption", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		participation := &model.Participation{OfferID: "offer-1", InfluencerID: "inf-1", RedemptionID: "red-1"}
		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(participation, nil)
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		got, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")

		assert.NoError(t, err)
		assert.Equal(t, "red-1", got.ID)
		mockRepo.AssertNotCalled(t, "RecreateRedemption", mock.Anything)
	})

	t.Run("Repeated calls return the same code", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		participation := &model.Participation{OfferID: "offer-1", InfluencerID: "inf-1", RedemptionID: "red-1"}
		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(participation, nil)
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		first, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")
		assert.NoError(t, err)
		second, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Not joined yet", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")

		assert.ErrorIs(t, err, ErrNotJoined)
	})

	t.Run("Missing redemption row is re-minted under the original ID", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		participation := &model.Participation{
			OfferID:        "offer-1",
			InfluencerID:   "inf-1",
			InfluencerName: "jane_eats",
			RedemptionID:   "red-1",
		}
		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(participation, nil)
		mockRepo.On("GetRedemption", "red-1").Return(nil, gorm.ErrRecordNotFound).Once()
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("RecreateRedemption", mock.MatchedBy(func(r *model.Redemption) bool {
			return r.ID == "red-1" && !r.Redeemed && r.BusinessID == "biz-1"
		})).Return(nil)

		got, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")

		assert.NoError(t, err)
		assert.Equal(t, "red-1", got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Re-mint race falls back to the winner's row", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		participation := &model.Participation{OfferID: "offer-1", InfluencerID: "inf-1", RedemptionID: "red-1"}
		offer := createTestOffer("offer-1", "biz-1")
		winner := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(participation, nil)
		mockRepo.On("GetRedemption", "red-1").Return(nil, gorm.ErrRecordNotFound).Once()
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("RecreateRedemption", mock.Anything).Return(gorm.ErrDuplicatedKey)
		mockRepo.On("GetRedemption", "red-1").Return(winner, nil).Once()

		got, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")

		assert.NoError(t, err)
		assert.Equal(t, "red-1", got.ID)
	})

	t.Run("Already redeemed code is still returned for display", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		participation := &model.Participation{OfferID: "offer-1", InfluencerID: "inf-1", RedemptionID: "red-1"}
		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		redemption.Redeemed = true
		mockRepo.On("GetParticipation", "offer-1", "inf-1").Return(participation, nil)
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		got, err := service.GetOrCreateRedemptionCode("offer-1", "inf-1")

		assert.NoError(t, err)
		assert.True(t, got.Redeemed)
	})
}

func TestVerifyAndRedeem(t *testing.T) {
	t.Run("Valid scan redeems and reports the influencer and offer", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("Redeem", "red-1", mock.AnythingOfType("time.Time")).Return(nil)

		result, err := service.VerifyAndRedeem("red-1", "biz-1")

		assert.NoError(t, err)
		assert.Equal(t, "jane_eats", result.InfluencerName)
		assert.Equal(t, "Free latte for a story", result.OfferTitle)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown redemption", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		mockRepo.On("GetRedemption", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.VerifyAndRedeem("missing", "biz-1")

		assert.ErrorIs(t, err, ErrRedemptionNotFound)
	})

	t.Run("Second scan of a consumed code is rejected", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redeemedAt := time.Now().Add(-time.Minute)
		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		redemption.Redeemed = true
		redemption.RedeemedAt = &redeemedAt
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		_, err := service.VerifyAndRedeem("red-1", "biz-1")

		assert.ErrorIs(t, err, ErrAlreadyRedeemed)
		// The stored consumption time is untouched by the losing scan.
		assert.Equal(t, redeemedAt, *redemption.RedeemedAt)
		mockRepo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent scans yield exactly one winner", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		// Both scans pass the pre-check; the conditional update decides.
		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)
		mockRepo.On("Redeem", "red-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
		mockRepo.On("Redeem", "red-1", mock.AnythingOfType("time.Time")).Return(repository.ErrNothingRedeemed).Once()

		_, firstErr := service.VerifyAndRedeem("red-1", "biz-1")
		_, secondErr := service.VerifyAndRedeem("red-1", "biz-1")

		assert.NoError(t, firstErr)
		assert.ErrorIs(t, secondErr, ErrAlreadyRedeemed)
	})

	t.Run("Another business cannot redeem the code", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		offer := createTestOffer("offer-1", "biz-1")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)

		_, err := service.VerifyAndRedeem("red-1", "biz-2")

		assert.ErrorIs(t, err, ErrBusinessMismatch)
		mockRepo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
	})

	t.Run("Stale code pointing at a reassigned offer is rejected", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redemption := createTestRedemption("red-1", "offer-1", "biz-old", "inf-1")
		offer := createTestOffer("offer-1", "biz-new")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)
		mockOffers.On("GetByID", "offer-1").Return(offer, nil)

		_, err := service.VerifyAndRedeem("red-1", "biz-new")

		assert.ErrorIs(t, err, ErrBusinessMismatch)
	})
}

func TestSweepExpiredOffers(t *testing.T) {
	t.Run("Deactivates expired offers and reports the count", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		now := time.Now()
		mockOffers.On("DeactivateExpired", now).Return(int64(3), nil)

		n, err := service.SweepExpiredOffers(now)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("Second sweep over the same set is a no-op", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		now := time.Now()
		mockOffers.On("DeactivateExpired", now).Return(int64(0), nil)

		n, err := service.SweepExpiredOffers(now)

		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Store failure is reported", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		now := time.Now()
		mockOffers.On("DeactivateExpired", now).Return(int64(0), errors.New("connection reset"))

		_, err := service.SweepExpiredOffers(now)

		assert.Error(t, err)
	})
}

func TestRedemptionForDisplay(t *testing.T) {
	t.Run("Owner can load their redemption", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		got, err := service.RedemptionForDisplay("red-1", "inf-1")

		assert.NoError(t, err)
		assert.Equal(t, "red-1", got.ID)
	})

	t.Run("Another influencer's redemption reads as not found", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		redemption := createTestRedemption("red-1", "offer-1", "biz-1", "inf-1")
		mockRepo.On("GetRedemption", "red-1").Return(redemption, nil)

		_, err := service.RedemptionForDisplay("red-1", "inf-2")

		assert.ErrorIs(t, err, ErrRedemptionNotFound)
	})
}

func TestMyParticipations(t *testing.T) {
	t.Run("Defaults page and limit", func(t *testing.T) {
		mockRepo := new(MockLedgerRepository)
		mockOffers := new(MockOfferStore)
		service := NewLedgerService(mockRepo, mockOffers)

		mockRepo.On("ListByInfluencer", "inf-1", 0, 10).Return([]model.Participation{}, int64(0), nil)

		_, total, err := service.MyParticipations("inf-1", 0, 0)

		assert.NoError(t, err)
		assert.Zero(t, total)
		mockRepo.AssertExpectations(t)
	})
}
