package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// Source identifies which catalog served a read.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// Options tunes the failover behaviour.
type Options struct {
	// MaxFailures is the consecutive primary failures before the breaker opens.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing the
	// primary again.
	OpenTimeout time.Duration
}

// Facade routes catalog reads to the database and fails over to the in-memory
// catalog when the database is unreachable. A circuit breaker stops the outage
// from adding a timeout to every request; after OpenTimeout a single probe
// decides whether the primary is back.
type Facade struct {
	primary  Catalog
	fallback Catalog
	breaker  *gobreaker.CircuitBreaker
	log      *logrus.Logger
}

// NewFacade wires a primary and fallback catalog behind a circuit breaker
func NewFacade(primary, fallback Catalog, opts Options, log *logrus.Logger) *Facade {
	maxFailures := opts.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	openTimeout := opts.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "catalog-primary",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// A missing row is an answer from a healthy primary, not an outage.
			return err == nil || errors.Is(err, sql.ErrNoRows)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Catalog breaker state changed")
		},
	})

	return &Facade{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		log:      log,
	}
}

// Mode reports which source the next read will likely hit
func (f *Facade) Mode() Source {
	if f.breaker.State() == gobreaker.StateOpen {
		return SourceFallback
	}
	return SourcePrimary
}

// ListGuestHouses lists guest houses, failing over on primary outage
func (f *Facade) ListGuestHouses(filter models.GuestHouseFilter) ([]models.GuestHouse, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListGuestHouses(filter)
	})
	if err == nil {
		return res.([]models.GuestHouse), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_guest_houses", err)
	out, ferr := f.fallback.ListGuestHouses(filter)
	return out, SourceFallback, ferr
}

// GetGuestHouse fetches a guest house, failing over on primary outage.
// A not-found from the primary is returned as-is; the fallback only answers
// when the primary is unreachable.
func (f *Facade) GetGuestHouse(id string) (*models.GuestHouse, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.GetGuestHouse(id)
	})
	if err == nil {
		return res.(*models.GuestHouse), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("get_guest_house", err)
	out, ferr := f.fallback.GetGuestHouse(id)
	return out, SourceFallback, ferr
}

// ListPackages lists travel packages, failing over on primary outage
func (f *Facade) ListPackages() ([]models.Package, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListPackages()
	})
	if err == nil {
		return res.([]models.Package), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_packages", err)
	out, ferr := f.fallback.ListPackages()
	return out, SourceFallback, ferr
}

// GetPackage fetches a package, failing over on primary outage
func (f *Facade) GetPackage(id string) (*models.Package, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.GetPackage(id)
	})
	if err == nil {
		return res.(*models.Package), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("get_package", err)
	out, ferr := f.fallback.GetPackage(id)
	return out, SourceFallback, ferr
}

// ListExperiences lists experiences, failing over on primary outage
func (f *Facade) ListExperiences(category string) ([]models.Experience, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListExperiences(category)
	})
	if err == nil {
		return res.([]models.Experience), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_experiences", err)
	out, ferr := f.fallback.ListExperiences(category)
	return out, SourceFallback, ferr
}

// ListContentSections lists CMS sections, failing over on primary outage
func (f *Facade) ListContentSections() ([]models.ContentSection, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListContentSections()
	})
	if err == nil {
		return res.([]models.ContentSection), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_content_sections", err)
	out, ferr := f.fallback.ListContentSections()
	return out, SourceFallback, ferr
}

// GetContentSection fetches one CMS section, failing over on primary outage
func (f *Facade) GetContentSection(key string) (*models.ContentSection, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.GetContentSection(key)
	})
	if err == nil {
		return res.(*models.ContentSection), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("get_content_section", err)
	out, ferr := f.fallback.GetContentSection(key)
	return out, SourceFallback, ferr
}

// ListNavigation lists navigation items, failing over on primary outage
func (f *Facade) ListNavigation() ([]models.NavigationItem, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListNavigation()
	})
	if err == nil {
		return res.([]models.NavigationItem), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_navigation", err)
	out, ferr := f.fallback.ListNavigation()
	return out, SourceFallback, ferr
}

// ListFerrySchedules lists ferry schedules, failing over on primary outage
func (f *Facade) ListFerrySchedules() ([]models.FerrySchedule, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListFerrySchedules()
	})
	if err == nil {
		return res.([]models.FerrySchedule), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_ferry_schedules", err)
	out, ferr := f.fallback.ListFerrySchedules()
	return out, SourceFallback, ferr
}

// ListAirlineSchedules lists airline schedules, failing over on primary outage
func (f *Facade) ListAirlineSchedules() ([]models.AirlineSchedule, Source, error) {
	res, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.ListAirlineSchedules()
	})
	if err == nil {
		return res.([]models.AirlineSchedule), SourcePrimary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SourcePrimary, err
	}
	f.logFailover("list_airline_schedules", err)
	out, ferr := f.fallback.ListAirlineSchedules()
	return out, SourceFallback, ferr
}

func (f *Facade) logFailover(op string, err error) {
	f.log.WithError(err).WithField("operation", op).Warn("Serving catalog read from fallback")
}

// dbCatalog adapts the repositories to the Catalog read surface.
type dbCatalog struct {
	guestHouses *database.GuestHouseRepository
	packages    *database.PackageRepository
	experiences *database.ExperienceRepository
	content     *database.ContentRepository
	schedules   *database.ScheduleRepository
}

// NewDBCatalog builds the primary catalog backed by the database repositories
func NewDBCatalog(
	guestHouses *database.GuestHouseRepository,
	packages *database.PackageRepository,
	experiences *database.ExperienceRepository,
	content *database.ContentRepository,
	schedules *database.ScheduleRepository,
) Catalog {
	return &dbCatalog{
		guestHouses: guestHouses,
		packages:    packages,
		experiences: experiences,
		content:     content,
		schedules:   schedules,
	}
}

func (c *dbCatalog) ListGuestHouses(filter models.GuestHouseFilter) ([]models.GuestHouse, error) {
	return c.guestHouses.List(filter)
}

func (c *dbCatalog) GetGuestHouse(id string) (*models.GuestHouse, error) {
	return c.guestHouses.GetByID(id)
}

func (c *dbCatalog) ListPackages() ([]models.Package, error) {
	return c.packages.List()
}

func (c *dbCatalog) GetPackage(id string) (*models.Package, error) {
	return c.packages.GetByID(id)
}

func (c *dbCatalog) ListExperiences(category string) ([]models.Experience, error) {
	return c.experiences.List(category)
}

func (c *dbCatalog) ListContentSections() ([]models.ContentSection, error) {
	return c.content.ListSections()
}

func (c *dbCatalog) GetContentSection(key string) (*models.ContentSection, error) {
	return c.content.GetSection(key)
}

func (c *dbCatalog) ListNavigation() ([]models.NavigationItem, error) {
	return c.content.ListNavigation()
}

func (c *dbCatalog) ListFerrySchedules() ([]models.FerrySchedule, error) {
	return c.schedules.ListFerries()
}

func (c *dbCatalog) ListAirlineSchedules() ([]models.AirlineSchedule, error) {
	return c.schedules.ListFlights()
}
