package expert

import (
	"strings"
	"testing"
	"time"
)

func validParams() Params {
	return Params{
		ID:         "jane-doe",
		Name:       "Jane Doe",
		Title:      "Cybersecurity Analyst",
		Rate:       "$350/hr",
		Rating:     4.5,
		Experience: "8+ years",
		Skills:     []string{"Cybersecurity", "Pentesting", "Threat Analysis", "SIEM"},
		Tags:       []string{"Security", "Cybersecurity"},
		Availability: []time.Time{
			time.Date(2025, time.July, 1, 15, 30, 0, 0, time.UTC),
		},
		LatestReviews: []Review{{ID: "1", Reviewer: "Carlos Ray", Rating: 5}},
	}
}

func TestNew_Valid(t *testing.T) {
	e, err := New(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID() != "jane-doe" {
		t.Errorf("expected id jane-doe, got %q", e.ID())
	}
	if got := e.Availability()[0]; !got.Equal(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("availability not truncated to day: %v", got)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		substr string
	}{
		{"empty id", func(p *Params) { p.ID = "" }, "ID is required"},
		{"bad id", func(p *Params) { p.ID = "Jane Doe" }, "lowercase"},
		{"empty name", func(p *Params) { p.Name = "" }, "name is required"},
		{"negative rating", func(p *Params) { p.Rating = -0.1 }, "rating"},
		{"rating above five", func(p *Params) { p.Rating = 5.1 }, "rating"},
		{"negative reviews count", func(p *Params) { p.ReviewsCount = -1 }, "reviews count"},
		{"review rating zero", func(p *Params) { p.LatestReviews[0].Rating = 0 }, "review by"},
		{"review rating six", func(p *Params) { p.LatestReviews[0].Rating = 6 }, "review by"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("expected error containing %q, got %q", tc.substr, err.Error())
			}
		})
	}
}

func TestNew_RatingBoundsInclusive(t *testing.T) {
	for _, r := range []float64{0, 5} {
		p := validParams()
		p.Rating = r
		if _, err := New(p); err != nil {
			t.Errorf("rating %.1f should be valid: %v", r, err)
		}
	}
}

func TestNew_CopiesSlices(t *testing.T) {
	p := validParams()
	e, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	p.Skills[0] = "mutated"
	p.Tags[0] = "mutated"
	if e.Skills()[0] != "Cybersecurity" {
		t.Error("skills aliased caller slice")
	}
	if e.Tags()[0] != "Security" {
		t.Error("tags aliased caller slice")
	}
}

func TestParams_RoundTrip(t *testing.T) {
	e, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	p := e.Params()
	p.ID = "jane-doe-clone-0"
	clone, err := New(p)
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if clone.Name() != e.Name() || clone.Rate() != e.Rate() {
		t.Error("clone lost fields")
	}
	if clone.ID() == e.ID() {
		t.Error("clone kept original id")
	}
}

func TestAvailableOn(t *testing.T) {
	e, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if !e.AvailableOn(time.Date(2025, time.July, 1, 23, 59, 0, 0, time.UTC)) {
		t.Error("expected available on July 1st")
	}
	if e.AvailableOn(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected unavailable on July 2nd")
	}
}

func TestSocialLinks_IsEmpty(t *testing.T) {
	if !(SocialLinks{}).IsEmpty() {
		t.Error("zero links should be empty")
	}
	if (SocialLinks{LinkedIn: "#"}).IsEmpty() {
		t.Error("links with linkedin should not be empty")
	}
}
