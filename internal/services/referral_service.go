package services

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

var (
	// ErrSelfReferral indicates a user tried to redeem their own code
	ErrSelfReferral = errors.New("cannot redeem your own referral code")

	// ErrAlreadyReferred indicates the user has already redeemed a code
	ErrAlreadyReferred = errors.New("a referral code was already redeemed for this account")

	// ErrInvalidReferralCode indicates the code does not exist or is inactive
	ErrInvalidReferralCode = errors.New("referral code is invalid")
)

// ReferralStore persists referral codes, redemptions and rewards
type ReferralStore interface {
	GetCodeByUser(userID uuid.UUID) (*models.ReferralCode, error)
	GetCodeByValue(code string) (*models.ReferralCode, error)
	CreateCode(userID uuid.UUID, code string) (*models.ReferralCode, error)
	CreateReferral(codeID string, referrerID, referredUserID uuid.UUID) (*models.Referral, error)
	GetPendingByReferredUser(referredUserID uuid.UUID) (*models.Referral, error)
	HasReferral(referredUserID uuid.UUID) (bool, error)
	CompleteReferral(id, bookingID string) error
	CreateReward(referralID string, userID uuid.UUID, amount float64) (*models.ReferralReward, error)
	ListRewardsByUser(userID uuid.UUID) ([]models.ReferralReward, error)
	ListRewards(limit, offset int) ([]models.ReferralReward, error)
	UpdateRewardStatus(id string, status models.RewardStatus) error
	GetStats(userID uuid.UUID) (*models.ReferralStats, error)
}

// ReferralService issues codes, records redemptions and computes rewards.
// Reward amounts are always derived server side from the booking total.
type ReferralService struct {
	store         ReferralStore
	rewardPercent float64
	logger        *logrus.Logger
}

// NewReferralService creates a new ReferralService
func NewReferralService(store ReferralStore, rewardPercent float64, logger *logrus.Logger) *ReferralService {
	if rewardPercent <= 0 {
		rewardPercent = 5.0
	}
	return &ReferralService{
		store:         store,
		rewardPercent: rewardPercent,
		logger:        logger,
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateCode returns an 8-character code drawn from an unambiguous alphabet
func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// GetOrCreateCode returns the caller's shareable code, issuing one on first use
func (s *ReferralService) GetOrCreateCode(userID uuid.UUID) (*models.ReferralCode, error) {
	code, err := s.store.GetCodeByUser(userID)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	value, err := generateCode()
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateCode(userID, value)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("Referral code issued")
	return created, nil
}

// Redeem links the caller to the code owner. A user redeems at most one code,
// and never their own.
func (s *ReferralService) Redeem(userID uuid.UUID, code string) (*models.Referral, error) {
	rc, err := s.store.GetCodeByValue(code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	if rc.UserID == userID {
		return nil, ErrSelfReferral
	}

	referred, err := s.store.HasReferral(userID)
	if err != nil {
		return nil, err
	}
	if referred {
		return nil, ErrAlreadyReferred
	}

	referral, err := s.store.CreateReferral(rc.ID, rc.UserID, userID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"referrer_id": rc.UserID,
		"referred_id": userID,
	}).Info("Referral code redeemed")
	return referral, nil
}

// CompleteForBooking marks the referred user's pending referral complete and
// credits the referrer. The reward is a percentage of the booking total,
// rounded to cents. Called when a referred user's booking is confirmed; a user
// with no pending referral is a no-op.
func (s *ReferralService) CompleteForBooking(referredUserID uuid.UUID, bookingID string, bookingTotal float64) (*models.ReferralReward, error) {
	referral, err := s.store.GetPendingByReferredUser(referredUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.store.CompleteReferral(referral.ID, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Completed concurrently; the reward was already issued.
			return nil, nil
		}
		return nil, err
	}

	amount := RewardAmount(bookingTotal, s.rewardPercent)
	reward, err := s.store.CreateReward(referral.ID, referral.ReferrerID, amount)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"referral_id": referral.ID,
		"booking_id":  bookingID,
		"amount":      amount,
	}).Info("Referral reward issued")
	return reward, nil
}

// RewardAmount computes the referrer's cut of a booking total, rounded to cents
func RewardAmount(bookingTotal, percent float64) float64 {
	return math.Round(bookingTotal*percent) / 100
}

// ListRewards returns the caller's rewards
func (s *ReferralService) ListRewards(userID uuid.UUID) ([]models.ReferralReward, error) {
	return s.store.ListRewardsByUser(userID)
}

// ListAllRewards returns rewards for the admin console
func (s *ReferralService) ListAllRewards(limit, offset int) ([]models.ReferralReward, error) {
	return s.store.ListRewards(limit, offset)
}

// UpdateRewardStatus moves a reward through the payout pipeline
func (s *ReferralService) UpdateRewardStatus(id string, rawStatus string) error {
	status, err := models.ParseRewardStatus(rawStatus)
	if err != nil {
		return err
	}
	if err := s.store.UpdateRewardStatus(id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Stats aggregates the caller's referral activity
func (s *ReferralService) Stats(userID uuid.UUID) (*models.ReferralStats, error) {
	return s.store.GetStats(userID)
}
