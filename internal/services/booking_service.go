package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

var (
	// ErrNotFound indicates the requested resource does not exist or is inactive
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller does not own the resource
	ErrForbidden = errors.New("not allowed")

	// ErrNotCancellable indicates the booking already reached a terminal state
	ErrNotCancellable = errors.New("booking can no longer be cancelled")

	// ErrUnavailable indicates the stay range has at least one day without inventory
	ErrUnavailable = errors.New("requested dates are not available")

	// ErrValidation wraps request-shape rejections so handlers map them to 400s
	ErrValidation = errors.New("invalid booking request")
)

// InventoryStore is the per-day inventory surface the booking flow needs
type InventoryStore interface {
	GetRoomAvailability(guestHouseID string, from, to time.Time) ([]models.RoomAvailability, error)
	DecrementRoomDay(guestHouseID string, date time.Time) error
	IncrementRoomDay(guestHouseID string, date time.Time) error
	GetPackageAvailability(packageID string, from, to time.Time) ([]models.PackageAvailability, error)
	DecrementPackageDay(packageID string, date time.Time) error
	IncrementPackageDay(packageID string, date time.Time) error
}

// BookingStore persists bookings
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	List(limit, offset int) ([]models.Booking, error)
	UpdateStatus(id string, status models.BookingStatus) error
	HasOverlapping(guestHouseID string, checkIn, checkOut time.Time) (bool, error)
}

// GuestHouseLookup resolves guest houses for booking validation
type GuestHouseLookup interface {
	GetByID(id string) (*models.GuestHouse, error)
}

// PackageLookup resolves packages for booking validation
type PackageLookup interface {
	GetByID(id string) (*models.Package, error)
}

// AvailabilityResult is the answer to a date-range availability check
type AvailabilityResult struct {
	Available  bool                      `json:"available"`
	Nights     int                       `json:"nights"`
	TotalPrice float64                   `json:"total_price"`
	Days       []models.RoomAvailability `json:"days"`
}

// BookingService implements the availability check and checkout flow. Inventory
// is taken one day at a time with conditional decrements, so two concurrent
// checkouts for the last room cannot both succeed.
type BookingService struct {
	bookings    BookingStore
	inventory   InventoryStore
	guestHouses GuestHouseLookup
	packages    PackageLookup
	stays       *validator.StayValidator
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings BookingStore,
	inventory InventoryStore,
	guestHouses GuestHouseLookup,
	packages PackageLookup,
	stays *validator.StayValidator,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		inventory:   inventory,
		guestHouses: guestHouses,
		packages:    packages,
		stays:       stays,
		logger:      logger,
	}
}

// CheckAvailability reports whether every day of [checkIn, checkOut) has at
// least one room, and the total price of the stay.
func (s *BookingService) CheckAvailability(guestHouseID, checkIn, checkOut string) (*AvailabilityResult, error) {
	from, to, err := s.stays.ParseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	gh, err := s.guestHouses.GetByID(guestHouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	days, err := s.inventory.GetRoomAvailability(guestHouseID, from, to)
	if err != nil {
		return nil, err
	}

	nights := s.stays.Nights(from, to)
	result := &AvailabilityResult{Nights: nights, Days: days}

	// A property with no per-day inventory sells as a whole unit: free
	// whenever no pending or confirmed booking overlaps the stay.
	if len(days) == 0 {
		conflict, err := s.bookings.HasOverlapping(guestHouseID, from, to)
		if err != nil {
			return nil, err
		}
		if !conflict {
			result.Available = true
			result.TotalPrice = gh.PricePerNight * float64(nights)
		}
		return result, nil
	}

	// Otherwise every night needs an inventory row with a free room; a
	// missing row means the day was never opened for sale.
	if len(days) < nights {
		return result, nil
	}
	var total float64
	for _, day := range days {
		if day.AvailableRooms < 1 {
			return result, nil
		}
		total += day.PricePerNight
	}

	result.Available = true
	result.TotalPrice = total
	return result, nil
}

// CreateBooking runs the checkout flow: validate the stay, take inventory for
// every occupied day, then persist the booking as pending.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	from, to, err := s.stays.ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if req.GuestHouseID != nil {
		return s.createGuestHouseBooking(userID, req, from, to)
	}
	return s.createPackageBooking(userID, req, from, to)
}

func (s *BookingService) createGuestHouseBooking(userID string, req *models.CreateBookingRequest, from, to time.Time) (*models.Booking, error) {
	gh, err := s.guestHouses.GetByID(*req.GuestHouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !gh.IsActive {
		return nil, ErrNotFound
	}
	if req.Guests > gh.MaxGuests {
		return nil, fmt.Errorf("%w: guest house sleeps at most %d guests", ErrValidation, gh.MaxGuests)
	}

	days, err := s.inventory.GetRoomAvailability(*req.GuestHouseID, from, to)
	if err != nil {
		return nil, err
	}
	nights := s.stays.Nights(from, to)
	if len(days) == 0 {
		return s.createWholeUnitBooking(userID, req, gh, from, to, nights)
	}
	if len(days) < nights {
		return nil, ErrUnavailable
	}

	var total float64
	for _, day := range days {
		total += day.PricePerNight
	}

	// Conditional decrement per day. On the first sold-out day every already
	// taken day is handed back before the error surfaces.
	taken := make([]time.Time, 0, nights)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if err := s.inventory.DecrementRoomDay(*req.GuestHouseID, d); err != nil {
			s.releaseRoomDays(*req.GuestHouseID, taken)
			if errors.Is(err, database.ErrNoInventory) {
				return nil, database.ErrNoInventory
			}
			return nil, err
		}
		taken = append(taken, d)
	}

	booking := &models.Booking{
		UserID:          userID,
		GuestHouseID:    req.GuestHouseID,
		CheckIn:         from,
		CheckOut:        to,
		Guests:          req.Guests,
		TotalPrice:      total,
		Status:          models.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.bookings.Create(booking); err != nil {
		s.releaseRoomDays(*req.GuestHouseID, taken)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"guest_house_id": *req.GuestHouseID,
		"check_in":       from.Format(validator.DateLayout),
		"check_out":      to.Format(validator.DateLayout),
	}).Info("Booking created")
	return booking, nil
}

// createWholeUnitBooking books a property that has no per-day inventory rows.
// Availability is the overlap check against existing bookings, so the original
// check-then-insert window remains open on this path; properties that need the
// stronger guarantee get per-day rows and go through the conditional decrement.
func (s *BookingService) createWholeUnitBooking(userID string, req *models.CreateBookingRequest, gh *models.GuestHouse, from, to time.Time, nights int) (*models.Booking, error) {
	conflict, err := s.bookings.HasOverlapping(*req.GuestHouseID, from, to)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrUnavailable
	}

	booking := &models.Booking{
		UserID:          userID,
		GuestHouseID:    req.GuestHouseID,
		CheckIn:         from,
		CheckOut:        to,
		Guests:          req.Guests,
		TotalPrice:      gh.PricePerNight * float64(nights),
		Status:          models.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"guest_house_id": *req.GuestHouseID,
		"check_in":       from.Format(validator.DateLayout),
		"check_out":      to.Format(validator.DateLayout),
	}).Info("Whole unit booking created")
	return booking, nil
}

func (s *BookingService) createPackageBooking(userID string, req *models.CreateBookingRequest, from, to time.Time) (*models.Booking, error) {
	pkg, err := s.packages.GetByID(*req.PackageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, ErrNotFound
	}
	if req.Guests > pkg.MaxGuests {
		return nil, fmt.Errorf("%w: package takes at most %d guests", ErrValidation, pkg.MaxGuests)
	}

	// Packages hold one departure slot on the check-in day; the stay length
	// is fixed by the itinerary.
	price := pkg.Price
	slots, err := s.inventory.GetPackageAvailability(*req.PackageID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		price = slots[0].Price
	}

	if err := s.inventory.DecrementPackageDay(*req.PackageID, from); err != nil {
		if errors.Is(err, database.ErrNoInventory) {
			return nil, database.ErrNoInventory
		}
		return nil, err
	}

	booking := &models.Booking{
		UserID:          userID,
		PackageID:       req.PackageID,
		CheckIn:         from,
		CheckOut:        to,
		Guests:          req.Guests,
		TotalPrice:      price * float64(req.Guests),
		Status:          models.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.bookings.Create(booking); err != nil {
		if rerr := s.inventory.IncrementPackageDay(*req.PackageID, from); rerr != nil {
			s.logger.WithError(rerr).Error("Failed to release package slot after create failure")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"package_id": *req.PackageID,
		"departure":  from.Format(validator.DateLayout),
	}).Info("Package booking created")
	return booking, nil
}

// GetBooking returns a booking visible to its owner or an admin
func (s *BookingService) GetBooking(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrForbidden
	}
	return booking, nil
}

// ListUserBookings returns the caller's bookings
func (s *BookingService) ListUserBookings(userID string) ([]models.Booking, error) {
	return s.bookings.GetByUserID(userID)
}

// ListBookings returns bookings for the admin console
func (s *BookingService) ListBookings(limit, offset int) ([]models.Booking, error) {
	return s.bookings.List(limit, offset)
}

// CancelBooking cancels a booking and returns its inventory
func (s *BookingService) CancelBooking(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrForbidden
	}
	if !booking.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	if err := s.bookings.UpdateStatus(bookingID, models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	s.restoreInventory(booking)

	booking.Status = models.BookingStatusCancelled
	s.logger.WithField("booking_id", bookingID).Info("Booking cancelled")
	return booking, nil
}

// UpdateStatus applies an admin status change; cancellations return inventory
func (s *BookingService) UpdateStatus(bookingID string, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if status == models.BookingStatusCancelled && booking.Status != models.BookingStatusCancelled {
		if err := s.bookings.UpdateStatus(bookingID, status); err != nil {
			return nil, err
		}
		s.restoreInventory(booking)
	} else {
		if err := s.bookings.UpdateStatus(bookingID, status); err != nil {
			return nil, err
		}
	}

	booking.Status = status
	return booking, nil
}

// restoreInventory returns every inventory day a booking occupied. Restores are
// capped at total at the database, so a double restore cannot overfill a day.
func (s *BookingService) restoreInventory(booking *models.Booking) {
	if booking.GuestHouseID != nil {
		for d := booking.CheckIn; d.Before(booking.CheckOut); d = d.AddDate(0, 0, 1) {
			if err := s.inventory.IncrementRoomDay(*booking.GuestHouseID, d); err != nil {
				s.logger.WithError(err).WithField("booking_id", booking.ID).
					Error("Failed to restore room inventory")
			}
		}
	}
	if booking.PackageID != nil {
		if err := s.inventory.IncrementPackageDay(*booking.PackageID, booking.CheckIn); err != nil {
			s.logger.WithError(err).WithField("booking_id", booking.ID).
				Error("Failed to restore package slot")
		}
	}
}

func (s *BookingService) releaseRoomDays(guestHouseID string, days []time.Time) {
	for _, d := range days {
		if err := s.inventory.IncrementRoomDay(guestHouseID, d); err != nil {
			s.logger.WithError(err).WithField("guest_house_id", guestHouseID).
				Error("Failed to release held room day")
		}
	}
}
