package profile

import (
	"fmt"
	"time"

	"github.com/bconnected/marketplace/internal/domain"
	domexp "github.com/bconnected/marketplace/internal/domain/expert"
)

// DefaultRelatedCount is the related-experts sample size shown on a profile.
const DefaultRelatedCount = 3

// MaxRelatedCount bounds the related-experts sample size.
const MaxRelatedCount = 20

// Booking calendar window and fallback selection.
var (
	CalendarFrom    = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	CalendarTo      = time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)
	DefaultSelected = time.Date(2025, time.June, 27, 0, 0, 0, 0, time.UTC)
)

var timeSlots = []string{"09:00 AM", "10:00 AM", "11:00 AM", "01:00 PM", "02:00 PM", "03:00 PM"}

// Calendar is the mock booking view of one expert.
type Calendar struct {
	From      time.Time
	To        time.Time
	Available []time.Time
	Selected  time.Time
	// Bookable is true when Selected is one of the available days.
	Bookable  bool
	TimeSlots []string
}

// Service serves expert profile pages.
type Service struct {
	dir Directory
}

// New creates a profile service.
func New(dir Directory) *Service {
	return &Service{dir: dir}
}

// Get returns one expert.
func (s *Service) Get(id string) (domexp.Expert, error) {
	e, err := s.dir.Get(id)
	if err != nil {
		return domexp.Expert{}, fmt.Errorf("get expert: %w", err)
	}
	return e, nil
}

// Related returns a random sample of other experts. count <= 0 selects the default.
// The expert must exist.
func (s *Service) Related(id string, count int) ([]domexp.Expert, error) {
	if _, err := s.dir.Get(id); err != nil {
		return nil, fmt.Errorf("related experts: %w", err)
	}
	if count <= 0 {
		count = DefaultRelatedCount
	}
	if count > MaxRelatedCount {
		return nil, fmt.Errorf("%w: count must be at most %d", domain.ErrInvalidQuery, MaxRelatedCount)
	}
	return s.dir.Related(id, count), nil
}

// Calendar builds the booking calendar. A nil date selects the first available
// day inside the window, falling back to DefaultSelected. Dates outside the window are rejected.
func (s *Service) Calendar(id string, date *time.Time) (Calendar, error) {
	e, err := s.dir.Get(id)
	if err != nil {
		return Calendar{}, fmt.Errorf("calendar: %w", err)
	}

	available := make([]time.Time, 0, len(e.Availability()))
	for _, d := range e.Availability() {
		if !d.Before(CalendarFrom) && !d.After(CalendarTo) {
			available = append(available, d)
		}
	}

	var selected time.Time
	switch {
	case date != nil:
		selected = domexp.Day(*date)
		if selected.Before(CalendarFrom) || selected.After(CalendarTo) {
			return Calendar{}, fmt.Errorf("%w: date %s outside %s..%s", domain.ErrInvalidQuery,
				selected.Format(time.DateOnly), CalendarFrom.Format(time.DateOnly), CalendarTo.Format(time.DateOnly))
		}
	case len(available) > 0:
		selected = available[0]
	default:
		selected = DefaultSelected
	}

	c := Calendar{
		From:      CalendarFrom,
		To:        CalendarTo,
		Available: available,
		Selected:  selected,
		Bookable:  e.AvailableOn(selected),
		TimeSlots: []string{},
	}
	if c.Bookable {
		c.TimeSlots = append(c.TimeSlots, timeSlots...)
	}
	return c, nil
}
