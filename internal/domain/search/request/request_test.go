package request

import (
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("", nil, DefaultPriceRange(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text() != "" || len(r.Categories()) != 0 {
		t.Errorf("unexpected request %+v", r)
	}
	if r.Price() != (PriceRange{Min: 0, Max: 1000}) {
		t.Errorf("unexpected price range %+v", r.Price())
	}
}

func TestNew_NormalizesCategories(t *testing.T) {
	r, err := New("  ai  ", []string{" Cybersecurity ", "", "AI-ML"}, DefaultPriceRange(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Text() != "  ai  " {
		t.Errorf("text altered: %q", r.Text())
	}
	got := r.Categories()
	if len(got) != 2 || got[0] != "cybersecurity" || got[1] != "ai-ml" {
		t.Errorf("unexpected categories %v", got)
	}
}

func TestNew_ResolvesCatalogIDs(t *testing.T) {
	r, err := New("", nil, DefaultPriceRange(), []string{"senior", "expert"}, []string{"next-week"})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.ExperienceLevels()) != 2 || r.ExperienceLevels()[1].ID != "expert" {
		t.Errorf("unexpected levels %+v", r.ExperienceLevels())
	}
	if len(r.Availability()) != 1 || r.Availability()[0].Within != 7 {
		t.Errorf("unexpected availability %+v", r.Availability())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		price  PriceRange
		exp    []string
		avail  []string
		substr string
	}{
		{"query too long", strings.Repeat("a", MaxQueryLength+1), DefaultPriceRange(), nil, nil, "too long"},
		{"negative min", "", PriceRange{Min: -1, Max: 10}, nil, nil, "non-negative"},
		{"inverted range", "", PriceRange{Min: 500, Max: 100}, nil, nil, "exceeds"},
		{"unknown level", "", DefaultPriceRange(), []string{"guru"}, nil, "experience level"},
		{"unknown availability", "", DefaultPriceRange(), nil, []string{"someday"}, "availability"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.text, nil, tc.price, tc.exp, tc.avail)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.substr)
			}
		})
	}
}

func TestPriceRange_ContainsInclusive(t *testing.T) {
	p := PriceRange{Min: 100, Max: 475}
	for _, v := range []int{100, 300, 475} {
		if !p.Contains(v) {
			t.Errorf("expected %d inside %+v", v, p)
		}
	}
	for _, v := range []int{99, 476} {
		if p.Contains(v) {
			t.Errorf("expected %d outside %+v", v, p)
		}
	}
}

func TestNewCriteria(t *testing.T) {
	minExp, maxRate := 10.0, 500.0
	c := NewCriteria([]string{"AI", "  ", "Python"}, &minExp, &maxRate)
	if kws := c.Keywords(); len(kws) != 3 || kws[1] != "  " {
		t.Errorf("expected keywords kept as sent, got %q", kws)
	}
	if c.MinExperienceYears() != 10 || c.MaxRatePerHour() != 500 {
		t.Errorf("unexpected numbers %+v", c)
	}

	c = NewCriteria(nil, nil, nil)
	if c.MinExperienceYears() != 0 || c.MaxRatePerHour() != 0 || len(c.Keywords()) != 0 {
		t.Errorf("expected zero criteria, got %+v", c)
	}
}
