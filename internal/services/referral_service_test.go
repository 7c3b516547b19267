package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

type fakeReferrals struct {
	codes     map[string]*models.ReferralCode
	referrals map[string]*models.Referral
	rewards   map[string]*models.ReferralReward
	nextID    int
}

func newFakeReferrals() *fakeReferrals {
	return &fakeReferrals{
		codes:     map[string]*models.ReferralCode{},
		referrals: map[string]*models.Referral{},
		rewards:   map[string]*models.ReferralReward{},
	}
}

func (f *fakeReferrals) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeReferrals) GetCodeByUser(userID uuid.UUID) (*models.ReferralCode, error) {
	for _, c := range f.codes {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeReferrals) GetCodeByValue(code string) (*models.ReferralCode, error) {
	c, ok := f.codes[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeReferrals) CreateCode(userID uuid.UUID, code string) (*models.ReferralCode, error) {
	c := &models.ReferralCode{ID: f.id("code"), UserID: userID, Code: code, IsActive: true, CreatedAt: time.Now()}
	f.codes[code] = c
	return c, nil
}

func (f *fakeReferrals) CreateReferral(codeID string, referrerID, referredUserID uuid.UUID) (*models.Referral, error) {
	r := &models.Referral{
		ID: f.id("ref"), CodeID: codeID, ReferrerID: referrerID,
		ReferredUserID: referredUserID, Status: models.ReferralStatusPending,
		CreatedAt: time.Now(),
	}
	f.referrals[r.ID] = r
	return r, nil
}

func (f *fakeReferrals) GetPendingByReferredUser(referredUserID uuid.UUID) (*models.Referral, error) {
	for _, r := range f.referrals {
		if r.ReferredUserID == referredUserID && r.Status == models.ReferralStatusPending {
			return r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeReferrals) HasReferral(referredUserID uuid.UUID) (bool, error) {
	for _, r := range f.referrals {
		if r.ReferredUserID == referredUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReferrals) CompleteReferral(id, bookingID string) error {
	r, ok := f.referrals[id]
	if !ok || r.Status != models.ReferralStatusPending {
		return sql.ErrNoRows
	}
	r.Status = models.ReferralStatusCompleted
	r.BookingID = &bookingID
	return nil
}

func (f *fakeReferrals) CreateReward(referralID string, userID uuid.UUID, amount float64) (*models.ReferralReward, error) {
	reward := &models.ReferralReward{
		ID: f.id("rwd"), ReferralID: referralID, UserID: userID,
		Amount: amount, Status: models.RewardStatusPending, CreatedAt: time.Now(),
	}
	f.rewards[reward.ID] = reward
	return reward, nil
}

func (f *fakeReferrals) ListRewardsByUser(userID uuid.UUID) ([]models.ReferralReward, error) {
	out := []models.ReferralReward{}
	for _, r := range f.rewards {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReferrals) ListRewards(limit, offset int) ([]models.ReferralReward, error) {
	out := []models.ReferralReward{}
	for _, r := range f.rewards {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReferrals) UpdateRewardStatus(id string, status models.RewardStatus) error {
	r, ok := f.rewards[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

func (f *fakeReferrals) GetStats(userID uuid.UUID) (*models.ReferralStats, error) {
	stats := &models.ReferralStats{}
	for _, r := range f.referrals {
		if r.ReferrerID != userID {
			continue
		}
		stats.TotalReferrals++
		if r.Status == models.ReferralStatusCompleted {
			stats.CompletedReferrals++
		}
	}
	for _, rw := range f.rewards {
		if rw.UserID != userID {
			continue
		}
		if rw.Status == models.RewardStatusPaid {
			stats.PaidRewards += rw.Amount
		} else {
			stats.PendingRewards += rw.Amount
		}
	}
	return stats, nil
}

func setupReferralTest(t *testing.T) (*ReferralService, *fakeReferrals) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	store := newFakeReferrals()
	return NewReferralService(store, 5.0, log), store
}

func TestGetOrCreateCode(t *testing.T) {
	service, _ := setupReferralTest(t)
	userID := uuid.New()

	code, err := service.GetOrCreateCode(userID)
	require.NoError(t, err)
	assert.Len(t, code.Code, 8)

	again, err := service.GetOrCreateCode(userID)
	require.NoError(t, err)
	assert.Equal(t, code.Code, again.Code)
}

func TestRedeem(t *testing.T) {
	service, _ := setupReferralTest(t)
	referrer := uuid.New()
	referred := uuid.New()

	code, err := service.GetOrCreateCode(referrer)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		referral, err := service.Redeem(referred, code.Code)
		require.NoError(t, err)
		assert.Equal(t, referrer, referral.ReferrerID)
		assert.Equal(t, models.ReferralStatusPending, referral.Status)
	})

	t.Run("Second Redemption Rejected", func(t *testing.T) {
		_, err := service.Redeem(referred, code.Code)
		assert.ErrorIs(t, err, ErrAlreadyReferred)
	})

	t.Run("Self Referral Rejected", func(t *testing.T) {
		_, err := service.Redeem(referrer, code.Code)
		assert.ErrorIs(t, err, ErrSelfReferral)
	})

	t.Run("Unknown Code", func(t *testing.T) {
		_, err := service.Redeem(uuid.New(), "NOPE1234")
		assert.ErrorIs(t, err, ErrInvalidReferralCode)
	})
}

func TestCompleteForBooking(t *testing.T) {
	service, store := setupReferralTest(t)
	referrer := uuid.New()
	referred := uuid.New()

	code, err := service.GetOrCreateCode(referrer)
	require.NoError(t, err)
	_, err = service.Redeem(referred, code.Code)
	require.NoError(t, err)

	t.Run("Reward Is Percentage Of Total", func(t *testing.T) {
		reward, err := service.CompleteForBooking(referred, "b-1", 360)
		require.NoError(t, err)
		require.NotNil(t, reward)
		assert.Equal(t, referrer, reward.UserID)
		assert.Equal(t, 18.0, reward.Amount)
		assert.Equal(t, models.RewardStatusPending, reward.Status)
	})

	t.Run("Second Completion Is A No-Op", func(t *testing.T) {
		reward, err := service.CompleteForBooking(referred, "b-2", 500)
		require.NoError(t, err)
		assert.Nil(t, reward)
		assert.Len(t, store.rewards, 1)
	})

	t.Run("User Without Referral Is A No-Op", func(t *testing.T) {
		reward, err := service.CompleteForBooking(uuid.New(), "b-3", 500)
		require.NoError(t, err)
		assert.Nil(t, reward)
	})
}

func TestRewardAmount(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		percent float64
		want    float64
	}{
		{"Whole Number", 360, 5, 18},
		{"Rounds To Cents", 123.45, 5, 6.17},
		{"Rounds Half Up", 199.9, 5, 10},
		{"Zero Total", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewardAmount(tt.total, tt.percent))
		})
	}
}

func TestUpdateRewardStatus(t *testing.T) {
	service, store := setupReferralTest(t)
	referrer := uuid.New()
	referred := uuid.New()

	code, err := service.GetOrCreateCode(referrer)
	require.NoError(t, err)
	_, err = service.Redeem(referred, code.Code)
	require.NoError(t, err)
	reward, err := service.CompleteForBooking(referred, "b-1", 360)
	require.NoError(t, err)

	t.Run("Approve Then Pay", func(t *testing.T) {
		require.NoError(t, service.UpdateRewardStatus(reward.ID, "approved"))
		assert.Equal(t, models.RewardStatusApproved, store.rewards[reward.ID].Status)

		require.NoError(t, service.UpdateRewardStatus(reward.ID, "paid"))
		assert.Equal(t, models.RewardStatusPaid, store.rewards[reward.ID].Status)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		err := service.UpdateRewardStatus(reward.ID, "vanished")
		assert.Error(t, err)
	})

	t.Run("Unknown Reward", func(t *testing.T) {
		err := service.UpdateRewardStatus("missing", "approved")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReferralStats(t *testing.T) {
	service, _ := setupReferralTest(t)
	referrer := uuid.New()
	referred := uuid.New()

	code, err := service.GetOrCreateCode(referrer)
	require.NoError(t, err)
	_, err = service.Redeem(referred, code.Code)
	require.NoError(t, err)
	_, err = service.CompleteForBooking(referred, "b-1", 360)
	require.NoError(t, err)

	stats, err := service.Stats(referrer)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReferrals)
	assert.Equal(t, 1, stats.CompletedReferrals)
	assert.Equal(t, 18.0, stats.PendingRewards)
	assert.Equal(t, 0.0, stats.PaidRewards)
}
