// Package catalog holds the fixed marketplace filter vocabularies.
package catalog

import (
	"strings"
	"time"
)

// Option is a selectable filter value.
type Option struct {
	ID    string
	Label string
}

// ExperienceLevel is a years-of-experience band. MaxYears < 0 means open-ended.
type ExperienceLevel struct {
	Option
	MinYears int
	MaxYears int
}

// Contains reports whether years falls inside the band.
func (l ExperienceLevel) Contains(years int) bool {
	if years < l.MinYears {
		return false
	}
	return l.MaxYears < 0 || years <= l.MaxYears
}

// AvailabilityOption is a booking horizon measured from today. Within is
// the number of days after today still counted, 0 meaning today only.
type AvailabilityOption struct {
	Option
	Within int
}

// Covers reports whether day falls inside the horizon starting at today.
func (a AvailabilityOption) Covers(today, day time.Time) bool {
	if day.Before(today) {
		return false
	}
	return day.Sub(today) <= time.Duration(a.Within)*24*time.Hour
}

var categories = []Option{
	{ID: "ai-ml", Label: "AI & Machine Learning"},
	{ID: "web-dev", Label: "Web Development"},
	{ID: "mobile-dev", Label: "Mobile Development"},
	{ID: "cybersecurity", Label: "Cybersecurity"},
	{ID: "data-science", Label: "Data Science"},
	{ID: "ux-ui", Label: "UX/UI Design"},
	{ID: "marketing", Label: "Digital Marketing"},
}

var experienceLevels = []ExperienceLevel{
	{Option: Option{ID: "entry", Label: "Entry Level (0-2 years)"}, MinYears: 0, MaxYears: 2},
	{Option: Option{ID: "mid", Label: "Mid Level (3-5 years)"}, MinYears: 3, MaxYears: 5},
	{Option: Option{ID: "senior", Label: "Senior Level (6-10 years)"}, MinYears: 6, MaxYears: 10},
	{Option: Option{ID: "expert", Label: "Expert (10+ years)"}, MinYears: 10, MaxYears: -1},
}

var availabilityOptions = []AvailabilityOption{
	{Option: Option{ID: "now", Label: "Available Now"}, Within: 0},
	{Option: Option{ID: "next-week", Label: "Next Week"}, Within: 7},
	{Option: Option{ID: "next-month", Label: "Next Month"}, Within: 30},
}

// Categories returns the category options shown in the marketplace sidebar.
func Categories() []Option { return append([]Option(nil), categories...) }

// ExperienceLevels returns the experience bands.
func ExperienceLevels() []ExperienceLevel {
	return append([]ExperienceLevel(nil), experienceLevels...)
}

// AvailabilityOptions returns the availability horizons.
func AvailabilityOptions() []AvailabilityOption {
	return append([]AvailabilityOption(nil), availabilityOptions...)
}

// LookupExperienceLevel finds a band by id.
func LookupExperienceLevel(id string) (ExperienceLevel, bool) {
	for _, l := range experienceLevels {
		if l.ID == id {
			return l, true
		}
	}
	return ExperienceLevel{}, false
}

// LookupAvailability finds a horizon by id.
func LookupAvailability(id string) (AvailabilityOption, bool) {
	for _, a := range availabilityOptions {
		if a.ID == id {
			return a, true
		}
	}
	return AvailabilityOption{}, false
}

// NormalizeTag maps a free-text tag to a category id:
// lower-cased, " & " and then spaces collapsed to hyphens.
func NormalizeTag(tag string) string {
	s := strings.ToLower(tag)
	s = strings.ReplaceAll(s, " & ", "-")
	return strings.ReplaceAll(s, " ", "-")
}
