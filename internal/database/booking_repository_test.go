package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

func TestCreateBooking(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	guestHouseID := "gh-1"
	userID := uuid.New().String()
	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		booking := &models.Booking{
			UserID:       userID,
			GuestHouseID: &guestHouseID,
			CheckIn:      checkIn,
			CheckOut:     checkOut,
			Guests:       2,
			TotalPrice:   360,
			Status:       models.BookingStatusPending,
		}

		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				sqlmock.AnyArg(), userID, guestHouseID, nil, checkIn, checkOut,
				2, 360.0, "pending", nil, nil,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, now, booking.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		booking := &models.Booking{
			UserID:       userID,
			GuestHouseID: &guestHouseID,
			CheckIn:      checkIn,
			CheckOut:     checkOut,
			Guests:       2,
			TotalPrice:   360,
			Status:       models.BookingStatusPending,
		}

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(booking)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create booking")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New().String()
		guestHouseID := "gh-1"
		userID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(bookingRows().
				AddRow(bookingID, userID, &guestHouseID, nil,
					now.AddDate(0, 0, 7), now.AddDate(0, 0, 10), 2,
					360.0, "confirmed", nil, nil, nil, now, now))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		require.NotNil(t, booking.GuestHouseID)
		assert.Equal(t, guestHouseID, *booking.GuestHouseID)
		assert.Nil(t, booking.PackageID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID(bookingID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHasOverlapping(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	guestHouseID := "gh-1"
	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Overlap Exists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(guestHouseID, checkIn, checkOut).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.HasOverlapping(guestHouseID, checkIn, checkOut)
		require.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Overlap", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(guestHouseID, checkIn, checkOut).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.HasOverlapping(guestHouseID, checkIn, checkOut)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(guestHouseID, checkIn, checkOut).
			WillReturnError(fmt.Errorf("database error"))

		exists, err := repo.HasOverlapping(guestHouseID, checkIn, checkOut)
		assert.Error(t, err)
		assert.False(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Cancel", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(bookingID, models.BookingStatusCancelled)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(bookingID, models.BookingStatusConfirmed)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingsByUserID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		userID := uuid.New().String()
		guestHouseID := "gh-1"
		packageID := "pkg-1"
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(userID).
			WillReturnRows(bookingRows().
				AddRow("b-1", userID, &guestHouseID, nil,
					now.AddDate(0, 0, 7), now.AddDate(0, 0, 10), 2,
					360.0, "confirmed", nil, nil, nil, now, now).
				AddRow("b-2", userID, nil, &packageID,
					now.AddDate(0, 0, 20), now.AddDate(0, 0, 24), 1,
					980.0, "pending", nil, nil, nil, now, now))

		bookings, err := repo.GetByUserID(userID)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.Equal(t, models.BookingStatusConfirmed, bookings[0].Status)
		require.NotNil(t, bookings[1].PackageID)
		assert.Equal(t, packageID, *bookings[1].PackageID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountByStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM bookings GROUP BY status`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow("pending", 3).
				AddRow("confirmed", 12).
				AddRow("cancelled", 1))

		counts, err := repo.CountByStatus()
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts[models.BookingStatusPending])
		assert.Equal(t, int64(12), counts[models.BookingStatusConfirmed])
		assert.Equal(t, int64(1), counts[models.BookingStatusCancelled])

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "guest_house_id", "package_id", "check_in", "check_out",
		"guests", "total_price", "status", "payment_intent_id", "special_requests",
		"cancelled_at", "created_at", "updated_at",
	})
}
