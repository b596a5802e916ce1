package expert

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	domexp "github.com/bconnected/marketplace/internal/domain/expert"
)

// CloneCount is the number of variants generated from the base experts.
const CloneCount = 5

var cloneImages = []string{
	"/man-profile-glasses.png",
	"/professional-woman-profile.png",
	"/middle-eastern-man-profile.png",
}

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func reviewTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(fmt.Sprintf("seed review timestamp %q: %v", s, err))
	}
	return t
}

func baseExperts() []domexp.Params {
	return []domexp.Params{
		{
			ID:           "ethan-yu",
			Name:         "Ethan Yu",
			Title:        "Google DeepMind Researcher",
			Pronouns:     "He/Him",
			Rate:         "$475/hr",
			Rating:       4.8,
			ReviewsCount: 120,
			Bio: "Dr. Yu spent 8 years at Meta as a Principal AI Scientist, leading core Teams that shipped foundational models for ads and integrity. " +
				"Before that, he has 14 years of experience in AI, with over 120 expert reviewed publications and patents. " +
				"He has built and currently mentors dozens of AI/ML/Data Sci teams, established Meta's best practices for remote optimization, and mentoring teams in best practices. " +
				"Dr. Yu's current research focuses on cutting-edge AI research, ensuring his expertise remains at the forefront of the field. " +
				"His communication skills are highly rated, with a track record of delivering complex technical concepts clearly and concisely.",
			ProfileImageURL: "/diverse-man-profile.png",
			BannerImageURL:  "/abstract-coastal-landscape.png",
			Skills: []string{
				"AI Research", "Machine Learning", "Deep Learning", "NLP", "Ads Optimization",
				"Team Leadership", "Python", "TensorFlow", "PyTorch",
			},
			Location:   "San Francisco, CA",
			Experience: "14+ years",
			Projects: []domexp.Project{
				{Name: "Foundational Models for Ads", Company: "Meta", Description: "Led the development of next-gen AI models for ad targeting."},
				{Name: "Integrity Systems Development", Company: "Meta", Description: "Built systems to detect and mitigate harmful content."},
			},
			Availability: []time.Time{
				date(time.June, 27), date(time.June, 28), date(time.July, 3), date(time.July, 5), date(time.July, 10),
			},
			LatestReviews: []domexp.Review{
				{
					ID: "1", Reviewer: "Alice Smith", Rating: 5,
					Comment:   "Ethan is incredibly knowledgeable and a great communicator. Highly recommend!",
					Avatar:    "/woman-profile.png",
					Timestamp: reviewTime("2025-05-15T10:30:00Z"),
				},
				{
					ID: "2", Reviewer: "Bob Johnson", Rating: 4,
					Comment:   "Provided valuable insights for our project. Helped us solve a critical issue.",
					Avatar:    "/man-profile-glasses.png",
					Timestamp: reviewTime("2025-05-10T14:00:00Z"),
				},
			},
			Tags:        []string{"AI", "ML", "Research", "Deep Learning", "NLP"},
			SocialLinks: domexp.SocialLinks{LinkedIn: "#", Twitter: "#", Portfolio: "#"},
		},
		{
			ID:              "jane-doe",
			Name:            "Jane Doe",
			Title:           "Cybersecurity Analyst",
			Rate:            "$350/hr",
			Rating:          4.5,
			ReviewsCount:    85,
			ProfileImageURL: "/woman-profile.png",
			BannerImageURL:  "/abstract-coastal-landscape.png",
			Bio: "Jane is a seasoned cybersecurity analyst with a knack for threat detection and mitigation strategies. " +
				"She has extensive experience in penetration testing and security audits.",
			Skills:     []string{"Cybersecurity", "Pentesting", "Threat Analysis", "SIEM", "Incident Response"},
			Location:   "New York, NY",
			Experience: "8+ years",
			Projects: []domexp.Project{
				{Name: "Enterprise Security Overhaul", Company: "TechCorp", Description: "Led a company-wide security infrastructure upgrade."},
			},
			Availability: []time.Time{date(time.July, 1), date(time.July, 2), date(time.July, 8)},
			LatestReviews: []domexp.Review{
				{
					ID: "1", Reviewer: "Carlos Ray", Rating: 5,
					Comment:   "Jane's expertise was crucial for our security posture.",
					Avatar:    "/man-profile-beard.png",
					Timestamp: reviewTime("2025-05-20T11:00:00Z"),
				},
			},
			Tags:        []string{"Security", "Pentesting", "Cybersecurity"},
			SocialLinks: domexp.SocialLinks{LinkedIn: "#"},
		},
		{
			ID:              "eamon-japhrie",
			Name:            "Eamon Japhrie",
			Title:           "Senior AI/ML Scientist @ Uber",
			Rate:            "$450/hr",
			Rating:          4.7,
			ReviewsCount:    110,
			ProfileImageURL: "/man-profile-beard.png",
			BannerImageURL:  "/abstract-coastal-landscape.png",
			Bio: "Eamon specializes in applying machine learning to solve complex logistical problems. " +
				"His work at Uber has significantly improved efficiency in routing and demand prediction.",
			Skills:     []string{"AI", "Machine Learning", "NLP", "Logistics", "Python", "Scala"},
			Location:   "Austin, TX",
			Experience: "10+ years",
			Projects: []domexp.Project{
				{Name: "Dynamic Pricing Algorithm", Company: "Uber", Description: "Developed and deployed a new pricing model."},
			},
			Availability: []time.Time{date(time.July, 5), date(time.July, 6), date(time.July, 12)},
			LatestReviews: []domexp.Review{
				{
					ID: "1", Reviewer: "Priya Singh", Rating: 5,
					Comment:   "Eamon's insights were game-changing for our platform.",
					Avatar:    "/professional-woman-profile.png",
					Timestamp: reviewTime("2025-05-18T09:00:00Z"),
				},
			},
			Tags:        []string{"AI", "ML", "NLP", "Logistics"},
			SocialLinks: domexp.SocialLinks{LinkedIn: "#", GitHub: "#"},
		},
	}
}

// SeedParams returns the fixed marketplace roster: the base experts followed by
// CloneCount variants. jitter must return values in [0,1); it spreads clone
// ratings by up to ±0.1 around their base.
func SeedParams(jitter func() float64) []domexp.Params {
	if jitter == nil {
		jitter = rand.Float64
	}
	base := baseExperts()
	out := make([]domexp.Params, 0, len(base)+CloneCount)
	out = append(out, base...)

	for i := range CloneCount {
		b := base[i%len(base)]
		c := b
		c.ID = fmt.Sprintf("%s-clone-%d", b.ID, i)
		c.Name = fmt.Sprintf("%s Clone %d", firstName(b.Name), i+1)
		c.ProfileImageURL = cloneImages[i%len(cloneImages)]
		c.Rating = jitterRating(b.Rating, jitter())
		out = append(out, c)
	}
	return out
}

// Seed builds the directory from SeedParams.
func Seed(jitter func() float64) (*Directory, error) {
	params := SeedParams(jitter)
	experts := make([]domexp.Expert, 0, len(params))
	for _, p := range params {
		e, err := domexp.New(p)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		experts = append(experts, e)
	}
	return NewDirectory(experts)
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i]
	}
	return name
}

func jitterRating(base, r float64) float64 {
	v := math.Round((base-0.1+r*0.2)*10) / 10
	return math.Max(0, math.Min(domexp.MaxRating, v))
}
