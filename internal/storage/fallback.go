package storage

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// Catalog is the read surface the public site serves from either the database
// or the in-memory fallback.
type Catalog interface {
	ListGuestHouses(filter models.GuestHouseFilter) ([]models.GuestHouse, error)
	GetGuestHouse(id string) (*models.GuestHouse, error)
	ListPackages() ([]models.Package, error)
	GetPackage(id string) (*models.Package, error)
	ListExperiences(category string) ([]models.Experience, error)
	ListContentSections() ([]models.ContentSection, error)
	GetContentSection(key string) (*models.ContentSection, error)
	ListNavigation() ([]models.NavigationItem, error)
	ListFerrySchedules() ([]models.FerrySchedule, error)
	ListAirlineSchedules() ([]models.AirlineSchedule, error)
}

// Memory is the seeded in-memory catalog used while the database is
// unreachable. Lookups that miss return sql.ErrNoRows so callers treat both
// sources uniformly.
type Memory struct {
	mu          sync.RWMutex
	guestHouses []models.GuestHouse
	packages    []models.Package
	experiences []models.Experience
	sections    []models.ContentSection
	navigation  []models.NavigationItem
	ferries     []models.FerrySchedule
	flights     []models.AirlineSchedule
	messages    map[string][]models.ChatMessage
}

// NewMemory returns a fallback catalog seeded with representative data so the
// marketing site keeps rendering during a database outage.
func NewMemory() *Memory {
	now := time.Now().UTC()
	return &Memory{
		messages: make(map[string][]models.ChatMessage),
		guestHouses: []models.GuestHouse{
			{
				ID:            "mem-gh-thoddoo",
				Name:          "Thoddoo Retreat Grand",
				Description:   "Family-run guest house two minutes from the bikini beach, with rooftop dining.",
				Atoll:         "Alif Alif",
				Island:        "Thoddoo",
				PricePerNight: 85,
				MaxGuests:     3,
				Rating:        4.8,
				Amenities:     []string{"wifi", "air_conditioning", "airport_transfer", "breakfast"},
				Images:        []string{"/images/guesthouses/thoddoo-retreat.jpg"},
				IsActive:      true,
				Featured:      true,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			{
				ID:            "mem-gh-maafushi",
				Name:          "Maafushi Coral View",
				Description:   "Modern rooms overlooking the lagoon with daily excursions to nearby sandbanks.",
				Atoll:         "Kaafu",
				Island:        "Maafushi",
				PricePerNight: 110,
				MaxGuests:     4,
				Rating:        4.6,
				Amenities:     []string{"wifi", "air_conditioning", "diving_center", "breakfast"},
				Images:        []string{"/images/guesthouses/maafushi-coral-view.jpg"},
				IsActive:      true,
				Featured:      true,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			{
				ID:            "mem-gh-fulidhoo",
				Name:          "Fulidhoo Island Breeze",
				Description:   "Quiet island stay known for nurse shark snorkeling right off the jetty.",
				Atoll:         "Vaavu",
				Island:        "Fulidhoo",
				PricePerNight: 70,
				MaxGuests:     2,
				Rating:        4.9,
				Amenities:     []string{"wifi", "breakfast", "snorkeling_gear"},
				Images:        []string{"/images/guesthouses/fulidhoo-breeze.jpg"},
				IsActive:      true,
				Featured:      false,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		packages: []models.Package{
			{
				ID:          "mem-pkg-island-hopper",
				Name:        "Island Hopper",
				Description: "Seven nights across three local islands with all transfers arranged.",
				Price:       1240,
				Duration:    7,
				MaxGuests:   4,
				Inclusions:  []string{"speedboat transfers", "breakfast", "sandbank picnic"},
				Exclusions:  []string{"international flights", "travel insurance"},
				IsActive:    true,
				Featured:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			{
				ID:          "mem-pkg-dive-week",
				Name:        "Dive Week",
				Description: "Five nights in Maafushi with ten guided dives and equipment included.",
				Price:       980,
				Duration:    5,
				MaxGuests:   2,
				Inclusions:  []string{"10 dives", "equipment", "breakfast"},
				Exclusions:  []string{"certification fees"},
				IsActive:    true,
				Featured:    false,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
		experiences: []models.Experience{
			{
				ID:            "mem-exp-manta",
				Name:          "Manta Ray Snorkeling",
				Description:   "Guided snorkeling at a cleaning station frequented by reef mantas.",
				Category:      "water",
				Price:         65,
				DurationHours: 3,
				MaxGuests:     8,
				Images:        []string{"/images/experiences/manta-snorkeling.jpg"},
				IsActive:      true,
				Featured:      true,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			{
				ID:            "mem-exp-sandbank",
				Name:          "Private Sandbank Picnic",
				Description:   "Half-day picnic on an uninhabited sandbank with fresh grilled fish.",
				Category:      "leisure",
				Price:         90,
				DurationHours: 4,
				MaxGuests:     6,
				Images:        []string{"/images/experiences/sandbank-picnic.jpg"},
				IsActive:      true,
				Featured:      false,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		sections: []models.ContentSection{
			{
				ID:         "mem-content-hero",
				SectionKey: "hero",
				Title:      "Discover the Local Maldives",
				Body:       "Stay on real islands, eat with local families, and travel between atolls by ferry.",
				UpdatedAt:  now,
			},
			{
				ID:         "mem-content-about",
				SectionKey: "about",
				Title:      "About Niyali Travel",
				Body:       "We connect travellers with family-run guest houses across the Maldives.",
				UpdatedAt:  now,
			},
		},
		navigation: []models.NavigationItem{
			{ID: "mem-nav-1", Label: "Guest Houses", Href: "/guest-houses", SortOrder: 1, IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: "mem-nav-2", Label: "Packages", Href: "/packages", SortOrder: 2, IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: "mem-nav-3", Label: "Experiences", Href: "/experiences", SortOrder: 3, IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: "mem-nav-4", Label: "Getting Around", Href: "/schedules", SortOrder: 4, IsActive: true, CreatedAt: now, UpdatedAt: now},
		},
		ferries: []models.FerrySchedule{
			{
				ID: "mem-ferry-1", Operator: "MTCC", Origin: "Male", Destination: "Maafushi",
				DepartureTime: "15:00", ArrivalTime: "16:30", Price: 2.5,
				DaysOfWeek: []string{"mon", "tue", "wed", "thu", "sat", "sun"},
				IsActive:   true, CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "mem-ferry-2", Operator: "MTCC", Origin: "Male", Destination: "Thoddoo",
				DepartureTime: "09:00", ArrivalTime: "12:00", Price: 4,
				DaysOfWeek: []string{"tue", "thu", "sun"},
				IsActive:   true, CreatedAt: now, UpdatedAt: now,
			},
		},
		flights: []models.AirlineSchedule{
			{
				ID: "mem-flight-1", Airline: "Maldivian", FlightNumber: "Q2-252", Origin: "Male",
				Destination: "Dharavandhoo", DepartureTime: "10:15", ArrivalTime: "10:35", Price: 120,
				DaysOfWeek: []string{"mon", "wed", "fri", "sun"},
				IsActive:   true, CreatedAt: now, UpdatedAt: now,
			},
		},
	}
}

// ListGuestHouses filters the seeded guest houses
func (m *Memory) ListGuestHouses(filter models.GuestHouseFilter) ([]models.GuestHouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []models.GuestHouse{}
	for _, gh := range m.guestHouses {
		if !gh.IsActive {
			continue
		}
		if filter.Atoll != "" && !strings.EqualFold(gh.Atoll, filter.Atoll) {
			continue
		}
		if filter.Featured != nil && gh.Featured != *filter.Featured {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(gh.Name), q) &&
				!strings.Contains(strings.ToLower(gh.Island), q) {
				continue
			}
		}
		result = append(result, gh)
	}
	return result, nil
}

// GetGuestHouse returns a seeded guest house by id
func (m *Memory) GetGuestHouse(id string) (*models.GuestHouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.guestHouses {
		if m.guestHouses[i].ID == id {
			gh := m.guestHouses[i]
			return &gh, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ListPackages returns the seeded packages
func (m *Memory) ListPackages() ([]models.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Package, len(m.packages))
	copy(result, m.packages)
	return result, nil
}

// GetPackage returns a seeded package by id
func (m *Memory) GetPackage(id string) (*models.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.packages {
		if m.packages[i].ID == id {
			pkg := m.packages[i]
			return &pkg, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ListExperiences returns seeded experiences, optionally filtered by category
func (m *Memory) ListExperiences(category string) ([]models.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []models.Experience{}
	for _, exp := range m.experiences {
		if category != "" && !strings.EqualFold(exp.Category, category) {
			continue
		}
		result = append(result, exp)
	}
	return result, nil
}

// ListContentSections returns the seeded content sections
func (m *Memory) ListContentSections() ([]models.ContentSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.ContentSection, len(m.sections))
	copy(result, m.sections)
	return result, nil
}

// GetContentSection returns a seeded section by key
func (m *Memory) GetContentSection(key string) (*models.ContentSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.sections {
		if m.sections[i].SectionKey == key {
			s := m.sections[i]
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ListNavigation returns the seeded navigation items
func (m *Memory) ListNavigation() ([]models.NavigationItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.NavigationItem, len(m.navigation))
	copy(result, m.navigation)
	return result, nil
}

// ListFerrySchedules returns the seeded ferry schedules
func (m *Memory) ListFerrySchedules() ([]models.FerrySchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.FerrySchedule, len(m.ferries))
	copy(result, m.ferries)
	return result, nil
}

// ListAirlineSchedules returns the seeded airline schedules
func (m *Memory) ListAirlineSchedules() ([]models.AirlineSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.AirlineSchedule, len(m.flights))
	copy(result, m.flights)
	return result, nil
}

// SaveMessage buffers a chat message while the database is unreachable. The
// buffer is process-local and is not replayed to the database afterwards.
func (m *Memory) SaveMessage(sessionID string, sender models.ChatSender, content string) (*models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return &msg, nil
}

// GetHistory returns the most recent buffered messages for a session in
// chronological order.
func (m *Memory) GetHistory(sessionID string, limit int) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buffered := m.messages[sessionID]
	if limit > 0 && len(buffered) > limit {
		buffered = buffered[len(buffered)-limit:]
	}
	result := make([]models.ChatMessage, len(buffered))
	copy(result, buffered)
	return result, nil
}
