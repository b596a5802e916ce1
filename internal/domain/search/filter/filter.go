// Package filter implements the marketplace search and tool filters as
// composable predicates over experts. Every function here is pure.
package filter

import (
	"strings"
	"time"

	"github.com/bconnected/marketplace/internal/domain/catalog"
	"github.com/bconnected/marketplace/internal/domain/expert"
	"github.com/bconnected/marketplace/internal/domain/search/request"
)

// Predicate reports whether an expert passes a filter.
// A nil Predicate is inactive and passes everything.
type Predicate func(e *expert.Expert) bool

// Apply returns the experts passing every active predicate, in input order.
func Apply(experts []expert.Expert, preds ...Predicate) []expert.Expert {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]expert.Expert, 0, len(experts))
next:
	for i := range experts {
		for _, p := range active {
			if !p(&experts[i]) {
				continue next
			}
		}
		out = append(out, experts[i])
	}
	return out
}

// Text matches the query case-insensitively against name, title and tags.
// A blank query is off; otherwise surrounding spaces are part of the match.
func Text(query string) Predicate {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)
	return func(e *expert.Expert) bool {
		if containsFold(e.Name(), q) || containsFold(e.Title(), q) {
			return true
		}
		return anyContains(e.Tags(), q)
	}
}

// Categories passes experts with at least one tag normalizing to a selected id.
func Categories(ids []string) Predicate {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(e *expert.Expert) bool {
		for _, tag := range e.Tags() {
			if _, ok := set[catalog.NormalizeTag(tag)]; ok {
				return true
			}
		}
		return false
	}
}

// Price passes experts whose parsed rate lies in r. Unparsable rates fail.
func Price(r request.PriceRange) Predicate {
	return func(e *expert.Expert) bool {
		rate, ok := e.RatePerHour()
		return ok && r.Contains(rate)
	}
}

// ExperienceLevels passes experts whose parsed years fall in any selected band.
func ExperienceLevels(levels []catalog.ExperienceLevel) Predicate {
	if len(levels) == 0 {
		return nil
	}
	return func(e *expert.Expert) bool {
		years, ok := e.ExperienceYears()
		if !ok {
			return false
		}
		for _, l := range levels {
			if l.Contains(years) {
				return true
			}
		}
		return false
	}
}

// Availability passes experts with a bookable day inside any selected horizon.
func Availability(opts []catalog.AvailabilityOption, today time.Time) Predicate {
	if len(opts) == 0 {
		return nil
	}
	today = expert.Day(today)
	return func(e *expert.Expert) bool {
		for _, day := range e.Availability() {
			for _, o := range opts {
				if o.Covers(today, day) {
					return true
				}
			}
		}
		return false
	}
}

// Keywords passes experts where any keyword appears in name, title, a skill,
// a tag or the bio. Matching is case-insensitive and keeps surrounding spaces;
// an empty keyword matches everyone. No keywords leaves the filter off.
func Keywords(keywords []string) Predicate {
	if len(keywords) == 0 {
		return nil
	}
	kws := make([]string, len(keywords))
	for i, k := range keywords {
		kws[i] = strings.ToLower(k)
	}
	return func(e *expert.Expert) bool {
		for _, k := range kws {
			if containsFold(e.Name(), k) ||
				containsFold(e.Title(), k) ||
				anyContains(e.Skills(), k) ||
				anyContains(e.Tags(), k) ||
				containsFold(e.Bio(), k) {
				return true
			}
		}
		return false
	}
}

// MinExperience passes experts with at least years of parsed experience.
// Zero disables the filter.
func MinExperience(years float64) Predicate {
	if years == 0 {
		return nil
	}
	return func(e *expert.Expert) bool {
		n, ok := e.ExperienceYears()
		return ok && float64(n) >= years
	}
}

// MaxRate passes experts whose parsed rate is at most rate. Zero disables the filter.
func MaxRate(rate float64) Predicate {
	if rate == 0 {
		return nil
	}
	return func(e *expert.Expert) bool {
		n, ok := e.RatePerHour()
		return ok && float64(n) <= rate
	}
}

// Options tunes the marketplace predicate set.
type Options struct {
	// Strict enables the experience and availability filters.
	// When false they are accepted but pass everything.
	Strict bool
	// Today anchors availability horizons.
	Today time.Time
}

// Marketplace builds the listing predicates for a validated request.
func Marketplace(r *request.Request, opts Options) []Predicate {
	preds := []Predicate{
		Text(r.Text()),
		Categories(r.Categories()),
		Price(r.Price()),
	}
	if opts.Strict {
		preds = append(preds,
			ExperienceLevels(r.ExperienceLevels()),
			Availability(r.Availability(), opts.Today),
		)
	}
	return preds
}

// Tool builds the predicates of the expert-finding tool.
func Tool(c request.Criteria) []Predicate {
	return []Predicate{
		Keywords(c.Keywords()),
		MinExperience(c.MinExperienceYears()),
		MaxRate(c.MaxRatePerHour()),
	}
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

func anyContains(values []string, lowerSubstr string) bool {
	for _, v := range values {
		if containsFold(v, lowerSubstr) {
			return true
		}
	}
	return false
}
