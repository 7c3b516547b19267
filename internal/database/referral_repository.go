package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ReferralRepository handles referral codes, referrals and rewards
type ReferralRepository struct {
	db DB
}

// NewReferralRepository creates a new ReferralRepository
func NewReferralRepository(db DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GetCodeByUser returns the active code owned by a user
func (r *ReferralRepository) GetCodeByUser(userID uuid.UUID) (*models.ReferralCode, error) {
	var code models.ReferralCode
	err := r.db.Get(&code, `
		SELECT id, user_id, code, is_active, created_at
		FROM referral_codes
		WHERE user_id = $1 AND is_active = true`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get referral code: %w", err)
	}
	return &code, nil
}

// GetCodeByValue resolves a shareable code string
func (r *ReferralRepository) GetCodeByValue(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Get(&rc, `
		SELECT id, user_id, code, is_active, created_at
		FROM referral_codes
		WHERE code = $1 AND is_active = true`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	return &rc, nil
}

// CreateCode issues a new code for a user
func (r *ReferralRepository) CreateCode(userID uuid.UUID, code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Get(&rc, `
		INSERT INTO referral_codes (id, user_id, code, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, user_id, code, is_active, created_at`,
		uuid.New().String(), userID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral code: %w", err)
	}
	return &rc, nil
}

// CreateReferral records a code redemption by a referred user
func (r *ReferralRepository) CreateReferral(codeID string, referrerID, referredUserID uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.Get(&referral, `
		INSERT INTO referrals (id, code_id, referrer_id, referred_user_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, code_id, referrer_id, referred_user_id, booking_id, status, completed_at, created_at`,
		uuid.New().String(), codeID, referrerID, referredUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}
	return &referral, nil
}

// GetPendingByReferredUser returns the pending referral for a referred user, if any
func (r *ReferralRepository) GetPendingByReferredUser(referredUserID uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.Get(&referral, `
		SELECT id, code_id, referrer_id, referred_user_id, booking_id, status, completed_at, created_at
		FROM referrals
		WHERE referred_user_id = $1 AND status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1`, referredUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get pending referral: %w", err)
	}
	return &referral, nil
}

// HasReferral reports whether a user has already been referred
func (r *ReferralRepository) HasReferral(referredUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `
		SELECT EXISTS (
			SELECT 1 FROM referrals WHERE referred_user_id = $1
		)`, referredUserID)
	if err != nil {
		return false, fmt.Errorf("failed to check referral existence: %w", err)
	}
	return exists, nil
}

// CompleteReferral marks a pending referral completed and attaches the qualifying booking.
// The status guard makes completion idempotent.
func (r *ReferralRepository) CompleteReferral(id, bookingID string) error {
	result, err := r.db.Exec(`
		UPDATE referrals
		SET status = 'completed', booking_id = $2, completed_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id, bookingID)
	if err != nil {
		return fmt.Errorf("failed to complete referral: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateReward records the payout owed for a completed referral
func (r *ReferralRepository) CreateReward(referralID string, userID uuid.UUID, amount float64) (*models.ReferralReward, error) {
	var reward models.ReferralReward
	err := r.db.Get(&reward, `
		INSERT INTO referral_rewards (id, referral_id, user_id, amount, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, referral_id, user_id, amount, status, approved_at, paid_at, created_at`,
		uuid.New().String(), referralID, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral reward: %w", err)
	}
	return &reward, nil
}

// ListRewardsByUser returns a user's rewards, newest first
func (r *ReferralRepository) ListRewardsByUser(userID uuid.UUID) ([]models.ReferralReward, error) {
	rewards := []models.ReferralReward{}
	err := r.db.Select(&rewards, `
		SELECT id, referral_id, user_id, amount, status, approved_at, paid_at, created_at
		FROM referral_rewards
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referral rewards: %w", err)
	}
	return rewards, nil
}

// ListRewards returns all rewards for the admin console, newest first
func (r *ReferralRepository) ListRewards(limit, offset int) ([]models.ReferralReward, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rewards := []models.ReferralReward{}
	err := r.db.Select(&rewards, `
		SELECT id, referral_id, user_id, amount, status, approved_at, paid_at, created_at
		FROM referral_rewards
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list referral rewards: %w", err)
	}
	return rewards, nil
}

// UpdateRewardStatus moves a reward through the payout pipeline
func (r *ReferralRepository) UpdateRewardStatus(id string, status models.RewardStatus) error {
	result, err := r.db.Exec(`
		UPDATE referral_rewards
		SET status = $2,
			approved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE approved_at END,
			paid_at = CASE WHEN $2 = 'paid' THEN NOW() ELSE paid_at END
		WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update reward status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetStats aggregates a referrer's activity
func (r *ReferralRepository) GetStats(userID uuid.UUID) (*models.ReferralStats, error) {
	var stats models.ReferralStats
	err := r.db.Get(&stats, `
		SELECT
			(SELECT COUNT(*) FROM referrals WHERE referrer_id = $1) AS total_referrals,
			(SELECT COUNT(*) FROM referrals WHERE referrer_id = $1 AND status = 'completed') AS completed_referrals,
			(SELECT COALESCE(SUM(amount), 0) FROM referral_rewards WHERE user_id = $1 AND status IN ('pending', 'approved')) AS pending_rewards,
			(SELECT COALESCE(SUM(amount), 0) FROM referral_rewards WHERE user_id = $1 AND status = 'paid') AS paid_rewards`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral stats: %w", err)
	}
	return &stats, nil
}
