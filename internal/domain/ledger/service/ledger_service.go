package service

import (
	"errors"
	"fmt"
	"time"

	"bizz_marketplace/internal/domain/ledger/model"
	"bizz_marketplace/internal/domain/ledger/repository"
	offerModel "bizz_marketplace/internal/domain/offer/model"
	"bizz_marketplace/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound      = errors.New("offer not found")
	ErrOfferInactive      = errors.New("offer is no longer active")
	ErrAlreadyJoined      = errors.New("offer already joined")
	ErrNotJoined          = errors.New("offer not joined yet")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrAlreadyRedeemed    = errors.New("redemption already consumed")
	ErrBusinessMismatch   = errors.New("redemption does not belong to this business")
)

// OfferStore is the slice of the offer repository the ledger needs: reading
// an offer at join/redeem time and batch-deactivating expired ones.
type OfferStore interface {
	GetByID(id string) (*offerModel.Offer, error)
	DeactivateExpired(now time.Time) (int64, error)
}

// LedgerService enforces the join -> issue-code -> redeem workflow with
// at-most-one-join and at-most-once-redemption guarantees.
type LedgerService interface {
	JoinOffer(offerID, influencerID, influencerName, platform string) (string, error)
	GetOrCreateRedemptionCode(offerID, influencerID string) (*model.Redemption, error)
	RedemptionForDisplay(redemptionID, influencerID string) (*model.Redemption, error)
	VerifyAndRedeem(redemptionID, businessID string) (*RedeemResult, error)
	SweepExpiredOffers(now time.Time) (int64, error)
	MyParticipations(influencerID string, page, limit int) ([]model.Participation, int64, error)
}

// RedeemResult is shown to business staff after a successful scan.
type RedeemResult struct {
	InfluencerName   string `json:"influencerName"`
	OfferTitle       string `json:"offerTitle"`
	OfferDescription string `json:"offerDescription"`
}

type ledgerService struct {
	repo   repository.LedgerRepository
	offers OfferStore
}

// NewLedgerService creates the redemption ledger.
func NewLedgerService(repo repository.LedgerRepository, offers OfferStore) LedgerService {
	return &ledgerService{repo: repo, offers: offers}
}

// JoinOffer enrolls an influencer in an offer. One transaction creates the
// Participation and its paired Redemption under a fresh shared UUID and
// increments the offer's participant counter; none of the three writes is
// ever visible alone. A concurrent duplicate join loses on the composite
// unique index and maps to ErrAlreadyJoined.
func (s *ledgerService) JoinOffer(offerID, influencerID, influencerName, platform string) (string, error) {
	start := time.Now()
	status := "failed"
	defer func() {
		metrics.RecordLedgerOp("join", status, time.Since(start).Seconds())
	}()

	if _, err := s.repo.GetParticipation(offerID, influencerID); err == nil {
		return "", ErrAlreadyJoined
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check participation: %w", err)
	}

	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOfferNotFound
		}
		return "", fmt.Errorf("failed to load offer: %w", err)
	}

	now := time.Now()
	if !offer.Active || offer.IsExpired(now) {
		return "", ErrOfferInactive
	}

	redemptionID := uuid.New().String()

	participation := &model.Participation{
		OfferID:        offerID,
		InfluencerID:   influencerID,
		BusinessID:     offer.BusinessID,
		InfluencerName: influencerName,
		Platform:       platform,
		JoinedAt:       now,
		RedemptionID:   redemptionID,
	}
	redemption := &model.Redemption{
		ID:             redemptionID,
		OfferID:        offerID,
		BusinessID:     offer.BusinessID,
		BusinessName:   offer.BusinessName,
		InfluencerID:   influencerID,
		InfluencerName: influencerName,
		Redeemed:       false,
		CreatedAt:      now,
	}

	if err := s.repo.CreateJoin(participation, redemption); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrAlreadyJoined
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOfferNotFound
		}
		return "", fmt.Errorf("failed to join offer: %w", err)
	}

	status = "success"
	return fmt.Sprintf("You joined %q. Show your QR code at %s to redeem.", offer.Title, offer.BusinessName), nil
}

// GetOrCreateRedemptionCode is the idempotent read path for code display.
// All issuance goes through JoinOffer; this only returns the participation's
// linked redemption. If the linked row is missing (inconsistent store) it is
// re-minted under the same identifier, so a prior valid code is never
// orphaned and two live codes never coexist.
func (s *ledgerService) GetOrCreateRedemptionCode(offerID, influencerID string) (*model.Redemption, error) {
	participation, err := s.repo.GetParticipation(offerID, influencerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotJoined
		}
		return nil, fmt.Errorf("failed to load participation: %w", err)
	}

	redemption, err := s.repo.GetRedemption(participation.RedemptionID)
	if err == nil {
		return redemption, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load redemption: %w", err)
	}

	// Defensive re-issue under the original identifier.
	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}

	redemption = &model.Redemption{
		ID:             participation.RedemptionID,
		OfferID:        offerID,
		BusinessID:     offer.BusinessID,
		BusinessName:   offer.BusinessName,
		InfluencerID:   influencerID,
		InfluencerName: participation.InfluencerName,
		Redeemed:       false,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.RecreateRedemption(redemption); err != nil {
		// Lost a race against another re-issue of the same ID; read theirs.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.GetRedemption(participation.RedemptionID)
		}
		return nil, fmt.Errorf("failed to re-issue redemption: %w", err)
	}

	return redemption, nil
}

// RedemptionForDisplay loads a redemption for the influencer who owns it.
func (s *ledgerService) RedemptionForDisplay(redemptionID, influencerID string) (*model.Redemption, error) {
	redemption, err := s.repo.GetRedemption(redemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, fmt.Errorf("failed to load redemption: %w", err)
	}
	if redemption.InfluencerID != influencerID {
		return nil, ErrRedemptionNotFound
	}
	return redemption, nil
}

// VerifyAndRedeem consumes a scanned code exactly once. The pre-checks give
// precise errors; the conditional update in the repository is what actually
// guarantees a single winner under concurrent scans. The redemption's stored
// business must match the offer's current business, and both must match the
// scanning account, which rejects stale and cross-tenant codes.
func (s *ledgerService) VerifyAndRedeem(redemptionID, businessID string) (*RedeemResult, error) {
	start := time.Now()
	status := "failed"
	defer func() {
		metrics.RecordLedgerOp("redeem", status, time.Since(start).Seconds())
		metrics.RedemptionsTotal.WithLabelValues(status).Inc()
	}()

	redemption, err := s.repo.GetRedemption(redemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, fmt.Errorf("failed to load redemption: %w", err)
	}

	if redemption.Redeemed {
		return nil, ErrAlreadyRedeemed
	}

	offer, err := s.offers.GetByID(redemption.OfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}

	if offer.BusinessID != redemption.BusinessID || offer.BusinessID != businessID {
		return nil, ErrBusinessMismatch
	}

	if err := s.repo.Redeem(redemptionID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNothingRedeemed) {
			return nil, ErrAlreadyRedeemed
		}
		return nil, fmt.Errorf("failed to redeem: %w", err)
	}

	status = "success"
	return &RedeemResult{
		InfluencerName:   redemption.InfluencerName,
		OfferTitle:       offer.Title,
		OfferDescription: offer.Description,
	}, nil
}

// SweepExpiredOffers deactivates every active offer past its validity
// window. Idempotent; the next run retries anything a failed run missed.
func (s *ledgerService) SweepExpiredOffers(now time.Time) (int64, error) {
	deactivated, err := s.offers.DeactivateExpired(now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired offers: %w", err)
	}
	if deactivated > 0 {
		metrics.RecordSweep(deactivated)
	}
	return deactivated, nil
}

func (s *ledgerService) MyParticipations(influencerID string, page, limit int) ([]model.Participation, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListByInfluencer(influencerID, offset, limit)
}
