package chi

import (
	"time"

	"github.com/bconnected/marketplace/internal/domain/catalog"
	domexp "github.com/bconnected/marketplace/internal/domain/expert"
	"github.com/bconnected/marketplace/internal/domain/user"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
	profileuc "github.com/bconnected/marketplace/internal/usecase/profile"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Review is one expert review.
type Review struct {
	ID        string    `json:"id"`
	Reviewer  string    `json:"reviewer"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Avatar    string    `json:"avatar,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Project is one past engagement.
type Project struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
}

// SocialLinks are optional profile links.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Expert is the full profile.
type Expert struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Title           string       `json:"title"`
	Pronouns        string       `json:"pronouns,omitempty"`
	Rate            string       `json:"rate"`
	Rating          float64      `json:"rating"`
	ReviewsCount    int          `json:"reviewsCount"`
	Bio             string       `json:"bio"`
	ProfileImageURL string       `json:"profileImageUrl"`
	BannerImageURL  string       `json:"bannerImageUrl"`
	Skills          []string     `json:"skills"`
	Location        string       `json:"location"`
	Experience      string       `json:"experience"`
	Projects        []Project    `json:"projects"`
	Availability    []string     `json:"availability"`
	LatestReviews   []Review     `json:"latestReviews"`
	Tags            []string     `json:"tags"`
	SocialLinks     *SocialLinks `json:"socialLinks,omitempty"`
}

// ExpertList is the body of GET /api/experts.
type ExpertList struct {
	Experts    []Expert `json:"experts"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	Total      int      `json:"total"`
}

// RelatedExperts is the body of GET /api/experts/{id}/related.
type RelatedExperts struct {
	Experts []Expert `json:"experts"`
}

// Calendar is the body of GET /api/experts/{id}/calendar.
type Calendar struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Available []string `json:"available"`
	Selected  string   `json:"selected"`
	Bookable  bool     `json:"bookable"`
	TimeSlots []string `json:"timeSlots"`
}

// FilterOption is a selectable filter value.
type FilterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ExperienceLevel is a years band. MaxYears is omitted for open-ended bands.
type ExperienceLevel struct {
	FilterOption
	MinYears int  `json:"minYears"`
	MaxYears *int `json:"maxYears,omitempty"`
}

// AvailabilityOption is a booking horizon in days from today.
type AvailabilityOption struct {
	FilterOption
	WithinDays int `json:"withinDays"`
}

// PriceBounds is the price slider range.
type PriceBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters is the body of GET /api/filters.
type Filters struct {
	Categories       []FilterOption       `json:"categories"`
	ExperienceLevels []ExperienceLevel    `json:"experienceLevels"`
	Availability     []AvailabilityOption `json:"availability"`
	Price            PriceBounds          `json:"price"`
	StrictFilters    bool                 `json:"strictFilters"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the signed-in principal.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the body of sign-in and GET /api/auth/session. Empty when signed out.
type Session struct {
	Token   string     `json:"token,omitempty"`
	User    *User      `json:"user,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
}

func expertToAPI(e *domexp.Expert) Expert {
	reviews := make([]Review, len(e.LatestReviews()))
	for i, r := range e.LatestReviews() {
		reviews[i] = Review(r)
	}
	projects := make([]Project, len(e.Projects()))
	for i, p := range e.Projects() {
		projects[i] = Project(p)
	}

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
		Skills:          nonNil(e.Skills()),
		Location:        e.Location(),
		Experience:      e.Experience(),
		Projects:        projects,
		Availability:    formatDays(e.Availability()),
		LatestReviews:   reviews,
		Tags:            nonNil(e.Tags()),
	}
	if links := e.SocialLinks(); !links.IsEmpty() {
		sl := SocialLinks(links)
		out.SocialLinks = &sl
	}
	return out
}

func expertsToAPI(experts []domexp.Expert) []Expert {
	out := make([]Expert, len(experts))
	for i := range experts {
		out[i] = expertToAPI(&experts[i])
	}
	return out
}

func listingToAPI(l marketplaceuc.Listing) ExpertList {
	return ExpertList{
		Experts:    expertsToAPI(l.Experts),
		Page:       l.Page,
		PageSize:   l.PageSize,
		TotalPages: l.TotalPages,
		Total:      l.Total,
	}
}

func calendarToAPI(c profileuc.Calendar) Calendar {
	return Calendar{
		From:      c.From.Format(time.DateOnly),
		To:        c.To.Format(time.DateOnly),
		Available: formatDays(c.Available),
		Selected:  c.Selected.Format(time.DateOnly),
		Bookable:  c.Bookable,
		TimeSlots: nonNil(c.TimeSlots),
	}
}

func filtersToAPI(o marketplaceuc.Options) Filters {
	cats := make([]FilterOption, len(o.Categories))
	for i, c := range o.Categories {
		cats[i] = optionToAPI(c)
	}
	levels := make([]ExperienceLevel, len(o.ExperienceLevels))
	for i, l := range o.ExperienceLevels {
		levels[i] = ExperienceLevel{FilterOption: optionToAPI(l.Option), MinYears: l.MinYears}
		if l.MaxYears >= 0 {
			maxYears := l.MaxYears
			levels[i].MaxYears = &maxYears
		}
	}
	avail := make([]AvailabilityOption, len(o.Availability))
	for i, a := range o.Availability {
		avail[i] = AvailabilityOption{FilterOption: optionToAPI(a.Option), WithinDays: a.Within}
	}
	return Filters{
		Categories:       cats,
		ExperienceLevels: levels,
		Availability:     avail,
		Price:            PriceBounds{Min: o.PriceBounds.Min, Max: o.PriceBounds.Max},
		StrictFilters:    o.StrictFilters,
	}
}

func optionToAPI(o catalog.Option) FilterOption {
	return FilterOption{ID: o.ID, Label: o.Label}
}

func sessionToAPI(token string, s user.Session) Session {
	expires := s.ExpiresAt.UTC()
	return Session{
		Token:   token,
		User:    &User{ID: s.User.ID, Name: s.User.Name, Email: s.User.Email},
		Expires: &expires,
	}
}

func formatDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
