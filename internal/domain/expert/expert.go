package expert

import (
	"fmt"
	"regexp"
	"slices"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Rating bounds for the aggregated expert rating and individual reviews.
const (
	MaxRating       = 5.0
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a single client review.
type Review struct {
	ID        string
	Reviewer  string
	Rating    int
	Comment   string
	Avatar    string
	Timestamp time.Time
}

// Project is a past engagement listed on the profile.
type Project struct {
	Name        string
	Company     string
	Description string
}

// SocialLinks holds optional external profile links.
type SocialLinks struct {
	LinkedIn  string
	Twitter   string
	GitHub    string
	Portfolio string
}

// IsEmpty reports whether no link is set.
func (s SocialLinks) IsEmpty() bool {
	return s == SocialLinks{}
}

// Params carries the fields used to build an Expert.
type Params struct {
	ID              string
	Name            string
	Title           string
	Pronouns        string
	Rate            string
	Rating          float64
	ReviewsCount    int
	Bio             string
	ProfileImageURL string
	BannerImageURL  string
	Skills          []string
	Location        string
	Experience      string
	Projects        []Project
	Availability    []time.Time
	LatestReviews   []Review
	Tags            []string
	SocialLinks     SocialLinks
}

// Expert is the marketplace expert aggregate (immutable value object).
type Expert struct {
	id              string
	name            string
	title           string
	pronouns        string
	rate            string
	rating          float64
	reviewsCount    int
	bio             string
	profileImageURL string
	bannerImageURL  string
	skills          []string
	location        string
	experience      string
	projects        []Project
	availability    []time.Time
	latestReviews   []Review
	tags            []string
	socialLinks     SocialLinks
}

// New validates and creates an Expert.
// Rate and experience stay free text; they are parsed on demand by ParseRate
// and ParseExperienceYears and never rejected here.
func New(p Params) (Expert, error) {
	if p.ID == "" {
		return Expert{}, fmt.Errorf("expert ID is required")
	}
	if !idRegex.MatchString(p.ID) {
		return Expert{}, fmt.Errorf("expert ID %q must be lowercase alphanumeric with underscores and hyphens", p.ID)
	}
	if p.Name == "" {
		return Expert{}, fmt.Errorf("expert %q: name is required", p.ID)
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return Expert{}, fmt.Errorf("expert %q: rating %.1f outside [0,%.0f]", p.ID, p.Rating, MaxRating)
	}
	if p.ReviewsCount < 0 {
		return Expert{}, fmt.Errorf("expert %q: reviews count must be non-negative", p.ID)
	}
	for _, r := range p.LatestReviews {
		if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
			return Expert{}, fmt.Errorf("expert %q: review by %q has rating %d outside [%d,%d]",
				p.ID, r.Reviewer, r.Rating, MinReviewRating, MaxReviewRating)
		}
	}

	availability := make([]time.Time, len(p.Availability))
	for i, d := range p.Availability {
		availability[i] = Day(d)
	}

	return Expert{
		id:              p.ID,
		name:            p.Name,
		title:           p.Title,
		pronouns:        p.Pronouns,
		rate:            p.Rate,
		rating:          p.Rating,
		reviewsCount:    p.ReviewsCount,
		bio:             p.Bio,
		profileImageURL: p.ProfileImageURL,
		bannerImageURL:  p.BannerImageURL,
		skills:          slices.Clone(p.Skills),
		location:        p.Location,
		experience:      p.Experience,
		projects:        slices.Clone(p.Projects),
		availability:    availability,
		latestReviews:   slices.Clone(p.LatestReviews),
		tags:            slices.Clone(p.Tags),
		socialLinks:     p.SocialLinks,
	}, nil
}

// Params returns the fields of e, suitable for building a variant with New.
func (e *Expert) Params() Params {
	return Params{
		ID:              e.id,
		Name:            e.name,
		Title:           e.title,
		Pronouns:        e.pronouns,
		Rate:            e.rate,
		Rating:          e.rating,
		ReviewsCount:    e.reviewsCount,
		Bio:             e.bio,
		ProfileImageURL: e.profileImageURL,
		BannerImageURL:  e.bannerImageURL,
		Skills:          slices.Clone(e.skills),
		Location:        e.location,
		Experience:      e.experience,
		Projects:        slices.Clone(e.projects),
		Availability:    slices.Clone(e.availability),
		LatestReviews:   slices.Clone(e.latestReviews),
		Tags:            slices.Clone(e.tags),
		SocialLinks:     e.socialLinks,
	}
}

// ID returns the stable expert identifier.
func (e *Expert) ID() string { return e.id }

// Name returns the display name.
func (e *Expert) Name() string { return e.name }

// Title returns the professional headline.
func (e *Expert) Title() string { return e.title }

// Pronouns returns the optional pronouns.
func (e *Expert) Pronouns() string { return e.pronouns }

// Rate returns the hourly rate as displayed, e.g. "$475/hr".
func (e *Expert) Rate() string { return e.rate }

// Rating returns the average rating in [0,5].
func (e *Expert) Rating() float64 { return e.rating }

// ReviewsCount returns the total number of reviews.
func (e *Expert) ReviewsCount() int { return e.reviewsCount }

// Bio returns the short biography.
func (e *Expert) Bio() string { return e.bio }

// ProfileImageURL returns the profile image reference.
func (e *Expert) ProfileImageURL() string { return e.profileImageURL }

// BannerImageURL returns the banner image reference.
func (e *Expert) BannerImageURL() string { return e.bannerImageURL }

// Skills returns the ordered skill labels.
func (e *Expert) Skills() []string { return e.skills }

// Location returns the free-text location.
func (e *Expert) Location() string { return e.location }

// Experience returns the experience string as displayed, e.g. "14+ years".
func (e *Expert) Experience() string { return e.experience }

// Projects returns the ordered past projects.
func (e *Expert) Projects() []Project { return e.projects }

// Availability returns the bookable days (midnight UTC).
func (e *Expert) Availability() []time.Time { return e.availability }

// LatestReviews returns the ordered recent reviews.
func (e *Expert) LatestReviews() []Review { return e.latestReviews }

// Tags returns the ordered tag labels used for category filtering.
func (e *Expert) Tags() []string { return e.tags }

// SocialLinks returns the optional social profile links.
func (e *Expert) SocialLinks() SocialLinks { return e.socialLinks }

// RatePerHour parses the rate. ok is false when the rate is not "$<n>/hr".
func (e *Expert) RatePerHour() (int, bool) { return ParseRate(e.rate) }

// ExperienceYears parses the experience. ok is false without a leading integer.
func (e *Expert) ExperienceYears() (int, bool) { return ParseExperienceYears(e.experience) }

// AvailableOn reports whether day (any time of day) is a bookable day.
func (e *Expert) AvailableOn(day time.Time) bool {
	d := Day(day)
	for _, a := range e.availability {
		if a.Equal(d) {
			return true
		}
	}
	return false
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
