package bconnected

import (
	"time"

	domexp "github.com/bconnected/marketplace/internal/domain/expert"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
)

// Expert is a marketplace profile.
type Expert struct {
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
	Location        string
	Experience      string
	Skills          []string
	Tags            []string
	Availability    []time.Time
	Projects        []Project
	Reviews         []Review
	SocialLinks     SocialLinks
}

// Review is one client review.
type Review struct {
	ID        string
	Reviewer  string
	Rating    int
	Comment   string
	Avatar    string
	Timestamp time.Time
}

// Project is a past engagement.
type Project struct {
	Name        string
	Company     string
	Description string
}

// SocialLinks holds optional external links.
type SocialLinks struct {
	LinkedIn  string
	Twitter   string
	GitHub    string
	Portfolio string
}

// Query is a marketplace listing request. Zero values leave a filter off.
type Query struct {
	Text             string
	Categories       []string
	MinPrice         *int
	MaxPrice         *int
	ExperienceLevels []string
	Availability     []string
	// Page is 1-based; out of range serves page 1.
	Page     int
	PageSize int
}

// Page is one page of listing results.
type Page struct {
	Experts    []Expert
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Criteria are the findExperts tool arguments.
type Criteria struct {
	Keywords           []string
	MinExperienceYears *float64
	MaxRatePerHour     *float64
}

// Summary is the compact expert view returned by findExperts.
type Summary struct {
	ID              string
	Name            string
	Title           string
	ProfileImageURL string
	Rate            string
	SkillsSummary   string
}

// Calendar is the mock booking view of one expert.
type Calendar struct {
	From      time.Time
	To        time.Time
	Available []time.Time
	Selected  time.Time
	Bookable  bool
	TimeSlots []string
}

// FilterOption is a selectable filter value.
type FilterOption struct {
	ID    string
	Label string
}

// Filters is the filter vocabulary of the listing.
type Filters struct {
	Categories       []FilterOption
	ExperienceLevels []FilterOption
	Availability     []FilterOption
	MinPrice         int
	MaxPrice         int
	// Strict reports whether experience and availability selections filter results.
	Strict bool
}

func expertFromDomain(e *domexp.Expert) Expert {
	out := Expert{
		ID:              e.ID(),
		Name:            e.Name(),
		Title:           e.Title(),
		Pronouns:        e.Pronouns(),
		Rate:            e.Rate(),
		Rating:          e.Rating(),
		ReviewsCount:    e.ReviewsCount(),
		Bio:             e.Bio(),
		ProfileImageURL: e.ProfileImageURL(),
		BannerImageURL:  e.BannerImageURL(),
		Location:        e.Location(),
		Experience:      e.Experience(),
		Skills:          append([]string(nil), e.Skills()...),
		Tags:            append([]string(nil), e.Tags()...),
		Availability:    append([]time.Time(nil), e.Availability()...),
		SocialLinks:     SocialLinks(e.SocialLinks()),
	}
	for _, p := range e.Projects() {
		out.Projects = append(out.Projects, Project(p))
	}
	for _, r := range e.LatestReviews() {
		out.Reviews = append(out.Reviews, Review(r))
	}
	return out
}

func filtersFromOptions(o marketplaceuc.Options) Filters {
	f := Filters{
		MinPrice: o.PriceBounds.Min,
		MaxPrice: o.PriceBounds.Max,
		Strict:   o.StrictFilters,
	}
	for _, c := range o.Categories {
		f.Categories = append(f.Categories, FilterOption(c))
	}
	for _, l := range o.ExperienceLevels {
		f.ExperienceLevels = append(f.ExperienceLevels, FilterOption(l.Option))
	}
	for _, a := range o.Availability {
		f.Availability = append(f.Availability, FilterOption(a.Option))
	}
	return f
}
