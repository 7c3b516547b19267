package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ScheduleRepository handles the ferry_schedules and airline_schedules tables
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const ferryColumns = `
	id, operator, origin, destination, departure_time, arrival_time,
	price, days_of_week, is_active, created_at, updated_at`

const airlineColumns = `
	id, airline, flight_number, origin, destination, departure_time,
	arrival_time, price, days_of_week, is_active, created_at, updated_at`

// ListFerries returns active ferry schedules
func (r *ScheduleRepository) ListFerries() ([]models.FerrySchedule, error) {
	schedules := []models.FerrySchedule{}
	err := r.db.Select(&schedules, `SELECT`+ferryColumns+`
		FROM ferry_schedules
		WHERE is_active = true
		ORDER BY origin, departure_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ferry schedules: %w", err)
	}
	return schedules, nil
}

// CreateFerry inserts a new ferry schedule
func (r *ScheduleRepository) CreateFerry(req *models.FerryScheduleRequest) (*models.FerrySchedule, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var schedule models.FerrySchedule
	err := r.db.Get(&schedule, `
		INSERT INTO ferry_schedules (
			id, operator, origin, destination, departure_time, arrival_time,
			price, days_of_week, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+ferryColumns,
		uuid.New().String(), req.Operator, req.Origin, req.Destination,
		req.DepartureTime, req.ArrivalTime, req.Price,
		pq.StringArray(req.DaysOfWeek), isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create ferry schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateFerry replaces a ferry schedule
func (r *ScheduleRepository) UpdateFerry(id string, req *models.FerryScheduleRequest) (*models.FerrySchedule, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var schedule models.FerrySchedule
	err := r.db.Get(&schedule, `
		UPDATE ferry_schedules
		SET operator = $2, origin = $3, destination = $4, departure_time = $5,
			arrival_time = $6, price = $7, days_of_week = $8, is_active = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING`+ferryColumns,
		id, req.Operator, req.Origin, req.Destination, req.DepartureTime,
		req.ArrivalTime, req.Price, pq.StringArray(req.DaysOfWeek), isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update ferry schedule: %w", err)
	}
	return &schedule, nil
}

// ListFlights returns active airline schedules
func (r *ScheduleRepository) ListFlights() ([]models.AirlineSchedule, error) {
	schedules := []models.AirlineSchedule{}
	err := r.db.Select(&schedules, `SELECT`+airlineColumns+`
		FROM airline_schedules
		WHERE is_active = true
		ORDER BY origin, departure_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to list airline schedules: %w", err)
	}
	return schedules, nil
}

// CreateFlight inserts a new airline schedule
func (r *ScheduleRepository) CreateFlight(req *models.AirlineScheduleRequest) (*models.AirlineSchedule, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var schedule models.AirlineSchedule
	err := r.db.Get(&schedule, `
		INSERT INTO airline_schedules (
			id, airline, flight_number, origin, destination, departure_time,
			arrival_time, price, days_of_week, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING`+airlineColumns,
		uuid.New().String(), req.Airline, req.FlightNumber, req.Origin,
		req.Destination, req.DepartureTime, req.ArrivalTime, req.Price,
		pq.StringArray(req.DaysOfWeek), isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create airline schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateFlight replaces an airline schedule
func (r *ScheduleRepository) UpdateFlight(id string, req *models.AirlineScheduleRequest) (*models.AirlineSchedule, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var schedule models.AirlineSchedule
	err := r.db.Get(&schedule, `
		UPDATE airline_schedules
		SET airline = $2, flight_number = $3, origin = $4, destination = $5,
			departure_time = $6, arrival_time = $7, price = $8, days_of_week = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING`+airlineColumns,
		id, req.Airline, req.FlightNumber, req.Origin, req.Destination,
		req.DepartureTime, req.ArrivalTime, req.Price,
		pq.StringArray(req.DaysOfWeek), isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update airline schedule: %w", err)
	}
	return &schedule, nil
}
