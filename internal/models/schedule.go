package models

import (
	"time"

	"github.com/lib/pq"
)

// FerrySchedule is a recurring speedboat/ferry departure between islands
type FerrySchedule struct {
	ID            string         `json:"id" db:"id"`
	Operator      string         `json:"operator" db:"operator"`
	Origin        string         `json:"origin" db:"origin"`
	Destination   string         `json:"destination" db:"destination"`
	DepartureTime string         `json:"departure_time" db:"departure_time"`
	ArrivalTime   string         `json:"arrival_time" db:"arrival_time"`
	Price         float64        `json:"price" db:"price"`
	DaysOfWeek    pq.StringArray `json:"days_of_week" db:"days_of_week"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// AirlineSchedule is a recurring domestic flight or seaplane transfer
type AirlineSchedule struct {
	ID            string         `json:"id" db:"id"`
	Airline       string         `json:"airline" db:"airline"`
	FlightNumber  string         `json:"flight_number" db:"flight_number"`
	Origin        string         `json:"origin" db:"origin"`
	Destination   string         `json:"destination" db:"destination"`
	DepartureTime string         `json:"departure_time" db:"departure_time"`
	ArrivalTime   string         `json:"arrival_time" db:"arrival_time"`
	Price         float64        `json:"price" db:"price"`
	DaysOfWeek    pq.StringArray `json:"days_of_week" db:"days_of_week"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// FerryScheduleRequest represents the admin request to create or update a ferry schedule
type FerryScheduleRequest struct {
	Operator      string   `json:"operator" binding:"required"`
	Origin        string   `json:"origin" binding:"required"`
	Destination   string   `json:"destination" binding:"required"`
	DepartureTime string   `json:"departure_time" binding:"required"`
	ArrivalTime   string   `json:"arrival_time" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DaysOfWeek    []string `json:"days_of_week" binding:"required"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// AirlineScheduleRequest represents the admin request to create or update a flight schedule
type AirlineScheduleRequest struct {
	Airline       string   `json:"airline" binding:"required"`
	FlightNumber  string   `json:"flight_number" binding:"required"`
	Origin        string   `json:"origin" binding:"required"`
	Destination   string   `json:"destination" binding:"required"`
	DepartureTime string   `json:"departure_time" binding:"required"`
	ArrivalTime   string   `json:"arrival_time" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DaysOfWeek    []string `json:"days_of_week" binding:"required"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
