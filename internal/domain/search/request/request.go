package request

import (
	"fmt"
	"strings"

	"github.com/bconnected/marketplace/internal/domain/catalog"
)

// Marketplace query limits.
const (
	// MaxQueryLength is the maximum allowed free-text query length.
	MaxQueryLength = 256
	// MaxSelections caps each multi-select filter.
	MaxSelections = 32
	// DefaultMinPrice and DefaultMaxPrice bound the price slider.
	DefaultMinPrice = 0
	DefaultMaxPrice = 1000
)

// PriceRange is an inclusive hourly-rate range.
type PriceRange struct {
	Min int
	Max int
}

// DefaultPriceRange returns the full slider range.
func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
}

// Contains reports whether rate lies in the range.
func (p PriceRange) Contains(rate int) bool {
	return rate >= p.Min && rate <= p.Max
}

// Request is a validated marketplace listing query.
type Request struct {
	text             string
	categories       []string
	price            PriceRange
	experienceLevels []catalog.ExperienceLevel
	availability     []catalog.AvailabilityOption
}

// New validates and normalizes marketplace filter state.
// Category ids are lower-cased; experience and availability ids must exist in the catalog.
func New(
	text string,
	categories []string,
	price PriceRange,
	experienceIDs, availabilityIDs []string,
) (Request, error) {
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if price.Min < 0 {
		return Request{}, fmt.Errorf("min price must be non-negative, got %d", price.Min)
	}
	if price.Min > price.Max {
		return Request{}, fmt.Errorf("min price %d exceeds max price %d", price.Min, price.Max)
	}
	if len(categories) > MaxSelections || len(experienceIDs) > MaxSelections || len(availabilityIDs) > MaxSelections {
		return Request{}, fmt.Errorf("too many filter selections (max %d each)", MaxSelections)
	}

	cats := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		cats = append(cats, c)
	}

	levels := make([]catalog.ExperienceLevel, 0, len(experienceIDs))
	for _, id := range experienceIDs {
		l, ok := catalog.LookupExperienceLevel(id)
		if !ok {
			return Request{}, fmt.Errorf("unknown experience level %q", id)
		}
		levels = append(levels, l)
	}

	avail := make([]catalog.AvailabilityOption, 0, len(availabilityIDs))
	for _, id := range availabilityIDs {
		a, ok := catalog.LookupAvailability(id)
		if !ok {
			return Request{}, fmt.Errorf("unknown availability option %q", id)
		}
		avail = append(avail, a)
	}

	return Request{
		text:             text,
		categories:       cats,
		price:            price,
		experienceLevels: levels,
		availability:     avail,
	}, nil
}

// Text returns the free-text query as sent (may be empty).
func (r *Request) Text() string { return r.text }

// Categories returns the selected category ids.
func (r *Request) Categories() []string { return r.categories }

// Price returns the price range.
func (r *Request) Price() PriceRange { return r.price }

// ExperienceLevels returns the selected experience bands.
func (r *Request) ExperienceLevels() []catalog.ExperienceLevel { return r.experienceLevels }

// Availability returns the selected availability horizons.
func (r *Request) Availability() []catalog.AvailabilityOption { return r.availability }
