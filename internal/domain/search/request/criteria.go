package request

import "slices"

// Criteria is the argument set of the expert-finding tool.
// A zero MinExperienceYears or MaxRatePerHour leaves that filter off.
type Criteria struct {
	keywords           []string
	minExperienceYears float64
	maxRatePerHour     float64
}

// NewCriteria builds tool criteria. Keywords are kept as sent, so an empty
// keyword matches every expert; nil numbers are off.
func NewCriteria(keywords []string, minExperienceYears, maxRatePerHour *float64) Criteria {
	c := Criteria{keywords: slices.Clone(keywords)}
	if minExperienceYears != nil {
		c.minExperienceYears = *minExperienceYears
	}
	if maxRatePerHour != nil {
		c.maxRatePerHour = *maxRatePerHour
	}
	return c
}

// Keywords returns the keywords as sent.
func (c Criteria) Keywords() []string { return c.keywords }

// MinExperienceYears returns the experience floor; 0 when unset.
func (c Criteria) MinExperienceYears() float64 { return c.minExperienceYears }

// MaxRatePerHour returns the rate ceiling; 0 when unset.
func (c Criteria) MaxRatePerHour() float64 { return c.maxRatePerHour }
