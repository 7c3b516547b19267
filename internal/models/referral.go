package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRewardStatus indicates a reward status value outside the known set
var ErrInvalidRewardStatus = errors.New("invalid reward status")

// ReferralStatus represents the redemption state of a referral
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"
)

// RewardStatus represents the payout state of a referral reward
type RewardStatus string

const (
	RewardStatusPending  RewardStatus = "pending"
	RewardStatusApproved RewardStatus = "approved"
	RewardStatusPaid     RewardStatus = "paid"
)

// ParseRewardStatus converts a raw string into a RewardStatus, rejecting unknown values
func ParseRewardStatus(s string) (RewardStatus, error) {
	switch RewardStatus(s) {
	case RewardStatusPending, RewardStatusApproved, RewardStatusPaid:
		return RewardStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRewardStatus, s)
}

// ReferralCode is a shareable code owned by a referrer
type ReferralCode struct {
	ID        string    `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Code      string    `json:"code" db:"code"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Referral links a referrer to a referred user through a code redemption
type Referral struct {
	ID             string         `json:"id" db:"id"`
	CodeID         string         `json:"code_id" db:"code_id"`
	ReferrerID     uuid.UUID      `json:"referrer_id" db:"referrer_id"`
	ReferredUserID uuid.UUID      `json:"referred_user_id" db:"referred_user_id"`
	BookingID      *string        `json:"booking_id,omitempty" db:"booking_id"`
	Status         ReferralStatus `json:"status" db:"status"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// ReferralReward is the payout owed to a referrer for a completed referral
type ReferralReward struct {
	ID         string       `json:"id" db:"id"`
	ReferralID string       `json:"referral_id" db:"referral_id"`
	UserID     uuid.UUID    `json:"user_id" db:"user_id"`
	Amount     float64      `json:"amount" db:"amount"`
	Status     RewardStatus `json:"status" db:"status"`
	ApprovedAt *time.Time   `json:"approved_at,omitempty" db:"approved_at"`
	PaidAt     *time.Time   `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// ReferralStats aggregates a referrer's activity
type ReferralStats struct {
	TotalReferrals     int     `json:"total_referrals" db:"total_referrals"`
	CompletedReferrals int     `json:"completed_referrals" db:"completed_referrals"`
	PendingRewards     float64 `json:"pending_rewards" db:"pending_rewards"`
	PaidRewards        float64 `json:"paid_rewards" db:"paid_rewards"`
}

// RedeemReferralRequest represents a referred user redeeming a code
type RedeemReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdateRewardRequest represents the admin payout state mutation
type UpdateRewardRequest struct {
	Status string `json:"status" binding:"required"`
}
