package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

// fakeInventory keeps per-day counts in memory and mirrors the conditional
// decrement semantics of the real repository.
type fakeInventory struct {
	rooms map[string]*models.RoomAvailability
	slots map[string]*models.PackageAvailability
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		rooms: map[string]*models.RoomAvailability{},
		slots: map[string]*models.PackageAvailability{},
	}
}

func dayKey(id string, date time.Time) string {
	return id + "|" + date.Format(validator.DateLayout)
}

func (f *fakeInventory) seedRooms(guestHouseID string, date time.Time, total, available int, price float64) {
	f.rooms[dayKey(guestHouseID, date)] = &models.RoomAvailability{
		GuestHouseID: guestHouseID, Date: date,
		TotalRooms: total, AvailableRooms: available, PricePerNight: price,
	}
}

func (f *fakeInventory) seedSlots(packageID string, date time.Time, total, available int, price float64) {
	f.slots[dayKey(packageID, date)] = &models.PackageAvailability{
		PackageID: packageID, Date: date,
		TotalSlots: total, AvailableSlots: available, Price: price,
	}
}

func (f *fakeInventory) GetRoomAvailability(guestHouseID string, from, to time.Time) ([]models.RoomAvailability, error) {
	out := []models.RoomAvailability{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if row, ok := f.rooms[dayKey(guestHouseID, d)]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeInventory) DecrementRoomDay(guestHouseID string, date time.Time) error {
	row, ok := f.rooms[dayKey(guestHouseID, date)]
	if !ok || row.AvailableRooms < 1 {
		return database.ErrNoInventory
	}
	row.AvailableRooms--
	return nil
}

func (f *fakeInventory) IncrementRoomDay(guestHouseID string, date time.Time) error {
	row, ok := f.rooms[dayKey(guestHouseID, date)]
	if !ok {
		return nil
	}
	if row.AvailableRooms < row.TotalRooms {
		row.AvailableRooms++
	}
	return nil
}

func (f *fakeInventory) GetPackageAvailability(packageID string, from, to time.Time) ([]models.PackageAvailability, error) {
	out := []models.PackageAvailability{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if row, ok := f.slots[dayKey(packageID, d)]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeInventory) DecrementPackageDay(packageID string, date time.Time) error {
	row, ok := f.slots[dayKey(packageID, date)]
	if !ok || row.AvailableSlots < 1 {
		return database.ErrNoInventory
	}
	row.AvailableSlots--
	return nil
}

func (f *fakeInventory) IncrementPackageDay(packageID string, date time.Time) error {
	row, ok := f.slots[dayKey(packageID, date)]
	if !ok {
		return nil
	}
	if row.AvailableSlots < row.TotalSlots {
		row.AvailableSlots++
	}
	return nil
}

type fakeBookings struct {
	byID    map[string]*models.Booking
	nextID  int
	failing bool
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byID: map[string]*models.Booking{}}
}

func (f *fakeBookings) Create(b *models.Booking) error {
	if f.failing {
		return fmt.Errorf("insert failed")
	}
	f.nextID++
	b.ID = fmt.Sprintf("b-%d", f.nextID)
	b.CreatedAt = time.Now()
	copied := *b
	f.byID[b.ID] = &copied
	return nil
}

func (f *fakeBookings) GetByID(id string) (*models.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) GetByUserID(userID string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) List(limit, offset int) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range f.byID {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(id string, status models.BookingStatus) error {
	b, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.Status = status
	return nil
}

func (f *fakeBookings) HasOverlapping(guestHouseID string, checkIn, checkOut time.Time) (bool, error) {
	for _, b := range f.byID {
		if b.GuestHouseID == nil || *b.GuestHouseID != guestHouseID {
			continue
		}
		if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			return true, nil
		}
	}
	return false, nil
}

type fakeGuestHouses struct {
	byID map[string]*models.GuestHouse
}

func (f *fakeGuestHouses) GetByID(id string) (*models.GuestHouse, error) {
	gh, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return gh, nil
}

type fakePackages struct {
	byID map[string]*models.Package
}

func (f *fakePackages) GetByID(id string) (*models.Package, error) {
	pkg, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return pkg, nil
}

func setupBookingTest(t *testing.T) (*BookingService, *fakeInventory, *fakeBookings) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	inventory := newFakeInventory()
	bookings := newFakeBookings()
	guestHouses := &fakeGuestHouses{byID: map[string]*models.GuestHouse{
		"gh-1": {ID: "gh-1", Name: "Thoddoo Retreat", IsActive: true, MaxGuests: 4, PricePerNight: 100},
	}}
	packages := &fakePackages{byID: map[string]*models.Package{
		"pkg-1": {ID: "pkg-1", Name: "Island Hopper", IsActive: true, MaxGuests: 4, Price: 500, Duration: 4},
	}}

	service := NewBookingService(bookings, inventory, guestHouses, packages, validator.NewStayValidator(30), log)
	return service, inventory, bookings
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAvailability(t *testing.T) {
	service, inventory, _ := setupBookingTest(t)

	inventory.seedRooms("gh-1", day(2025, 6, 1), 5, 5, 120)
	inventory.seedRooms("gh-1", day(2025, 6, 2), 5, 3, 130)

	t.Run("Available Range", func(t *testing.T) {
		result, err := service.CheckAvailability("gh-1", "2025-06-01", "2025-06-03")
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, 2, result.Nights)
		assert.Equal(t, 250.0, result.TotalPrice)
	})

	t.Run("Missing Day Is Unavailable", func(t *testing.T) {
		result, err := service.CheckAvailability("gh-1", "2025-06-01", "2025-06-04")
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("Sold Out Day Is Unavailable", func(t *testing.T) {
		inventory.seedRooms("gh-1", day(2025, 6, 3), 5, 0, 120)
		result, err := service.CheckAvailability("gh-1", "2025-06-01", "2025-06-04")
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("No Inventory Rows Uses Overlap Check", func(t *testing.T) {
		svc, _, bookings := setupBookingTest(t)

		result, err := svc.CheckAvailability("gh-1", "2025-08-01", "2025-08-04")
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, 300.0, result.TotalPrice)

		id := "gh-1"
		bookings.byID["b-x"] = &models.Booking{
			ID: "b-x", UserID: "user-9", GuestHouseID: &id,
			CheckIn: day(2025, 8, 2), CheckOut: day(2025, 8, 5),
			Status: models.BookingStatusConfirmed,
		}

		result, err = svc.CheckAvailability("gh-1", "2025-08-01", "2025-08-04")
		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("Unknown Guest House", func(t *testing.T) {
		_, err := service.CheckAvailability("gh-missing", "2025-06-01", "2025-06-03")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Bad Date Order", func(t *testing.T) {
		_, err := service.CheckAvailability("gh-1", "2025-06-03", "2025-06-01")
		assert.ErrorIs(t, err, validator.ErrCheckOutNotAfterCheckIn)
	})
}

func TestCreateGuestHouseBooking(t *testing.T) {
	guestHouseID := "gh-1"

	t.Run("Success Decrements Every Night", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)
		inventory.seedRooms(guestHouseID, day(2025, 6, 2), 5, 5, 120)
		inventory.seedRooms(guestHouseID, day(2025, 6, 3), 5, 5, 120)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-03",
			Guests:       2,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, 240.0, booking.TotalPrice)

		// Occupied nights go 5 to 4; the check-out day is untouched.
		assert.Equal(t, 4, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
		assert.Equal(t, 4, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 2))].AvailableRooms)
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 3))].AvailableRooms)
	})

	t.Run("Sold Out Mid Stay Rolls Back", func(t *testing.T) {
		service, inventory, bookings := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 2, 120)
		inventory.seedRooms(guestHouseID, day(2025, 6, 2), 5, 0, 120)

		_, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-03",
			Guests:       2,
		})
		assert.ErrorIs(t, err, database.ErrNoInventory)

		// The held first night was handed back.
		assert.Equal(t, 2, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
		assert.Empty(t, bookings.byID)
	})

	t.Run("Last Room Goes To Exactly One Booking", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 1, 1, 120)

		req := &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       1,
		}
		_, err := service.CreateBooking("user-1", req)
		require.NoError(t, err)

		_, err = service.CreateBooking("user-2", req)
		assert.ErrorIs(t, err, database.ErrNoInventory)
		assert.Equal(t, 0, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
	})

	t.Run("Create Failure Releases Inventory", func(t *testing.T) {
		service, inventory, bookings := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)
		bookings.failing = true

		_, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       1,
		})
		assert.Error(t, err)
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
	})

	t.Run("Too Many Guests", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)

		_, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       9,
		})
		assert.Error(t, err)
	})

	t.Run("Whole Unit Without Inventory Rows", func(t *testing.T) {
		service, _, bookings := setupBookingTest(t)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-08-01",
			CheckOut:     "2025-08-03",
			Guests:       2,
		})
		require.NoError(t, err)
		assert.Equal(t, 200.0, booking.TotalPrice)

		// The whole property is taken for those dates now.
		_, err = service.CreateBooking("user-2", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-08-02",
			CheckOut:     "2025-08-04",
			Guests:       1,
		})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Len(t, bookings.byID, 1)
	})

	t.Run("Both Targets Rejected", func(t *testing.T) {
		service, _, _ := setupBookingTest(t)
		packageID := "pkg-1"

		_, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			PackageID:    &packageID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       1,
		})
		assert.Error(t, err)
	})
}

func TestCreatePackageBooking(t *testing.T) {
	packageID := "pkg-1"

	t.Run("Success Takes One Departure Slot", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedSlots(packageID, day(2025, 7, 10), 10, 10, 480)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			PackageID: &packageID,
			CheckIn:   "2025-07-10",
			CheckOut:  "2025-07-14",
			Guests:    2,
		})
		require.NoError(t, err)
		// Per-departure price override beats the base package price.
		assert.Equal(t, 960.0, booking.TotalPrice)
		assert.Equal(t, 9, inventory.slots[dayKey(packageID, day(2025, 7, 10))].AvailableSlots)
	})

	t.Run("No Slots", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedSlots(packageID, day(2025, 7, 10), 10, 0, 480)

		_, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			PackageID: &packageID,
			CheckIn:   "2025-07-10",
			CheckOut:  "2025-07-14",
			Guests:    2,
		})
		assert.ErrorIs(t, err, database.ErrNoInventory)
	})
}

func TestCancelBooking(t *testing.T) {
	guestHouseID := "gh-1"

	t.Run("Cancel Restores Inventory", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)
		inventory.seedRooms(guestHouseID, day(2025, 6, 2), 5, 5, 120)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-03",
			Guests:       2,
		})
		require.NoError(t, err)
		require.Equal(t, 4, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)

		cancelled, err := service.CancelBooking("user-1", false, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 2))].AvailableRooms)
	})

	t.Run("Only Owner Or Admin", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       1,
		})
		require.NoError(t, err)

		_, err = service.CancelBooking("user-2", false, booking.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = service.CancelBooking("user-2", true, booking.ID)
		require.NoError(t, err)
	})

	t.Run("Double Cancel Rejected", func(t *testing.T) {
		service, inventory, _ := setupBookingTest(t)
		inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)

		booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
			GuestHouseID: &guestHouseID,
			CheckIn:      "2025-06-01",
			CheckOut:     "2025-06-02",
			Guests:       1,
		})
		require.NoError(t, err)

		_, err = service.CancelBooking("user-1", false, booking.ID)
		require.NoError(t, err)

		_, err = service.CancelBooking("user-1", false, booking.ID)
		assert.ErrorIs(t, err, ErrNotCancellable)

		// Inventory is restored exactly once.
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		service, _, _ := setupBookingTest(t)
		_, err := service.CancelBooking("user-1", false, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	service, inventory, _ := setupBookingTest(t)
	guestHouseID := "gh-1"
	inventory.seedRooms(guestHouseID, day(2025, 6, 1), 5, 5, 120)

	booking, err := service.CreateBooking("user-1", &models.CreateBookingRequest{
		GuestHouseID: &guestHouseID,
		CheckIn:      "2025-06-01",
		CheckOut:     "2025-06-02",
		Guests:       1,
	})
	require.NoError(t, err)

	t.Run("Confirm Keeps Inventory", func(t *testing.T) {
		updated, err := service.UpdateStatus(booking.ID, models.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
		assert.Equal(t, 4, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
	})

	t.Run("Admin Cancel Restores Inventory", func(t *testing.T) {
		updated, err := service.UpdateStatus(booking.ID, models.BookingStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, updated.Status)
		assert.Equal(t, 5, inventory.rooms[dayKey(guestHouseID, day(2025, 6, 1))].AvailableRooms)
	})
}
