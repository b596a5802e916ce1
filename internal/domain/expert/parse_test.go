package expert

import "testing"

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"$475/hr", 475, true},
		{"$0/hr", 0, true},
		{" $350/hr ", 350, true},
		{"475", 475, true},
		{"$475.50/hr", 475, true},
		{"$47.5/hr", 47, true},
		{"$1,000/hr", 1, true},
		{"$-5/hr", 0, false},
		{"free", 0, false},
		{"$/hr", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseRate(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRate(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseExperienceYears(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"14+ years", 14, true},
		{"8+ years", 8, true},
		{"10 years", 10, true},
		{"  3+ years", 3, true},
		{"years: 5", 0, false},
		{"+5 years", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseExperienceYears(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseExperienceYears(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExpert_ParsedAccessors(t *testing.T) {
	p := validParams()
	p.Rate = "$475/hr"
	p.Experience = "14+ years"
	e, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := e.RatePerHour(); !ok || r != 475 {
		t.Errorf("RatePerHour = (%d, %v)", r, ok)
	}
	if y, ok := e.ExperienceYears(); !ok || y != 14 {
		t.Errorf("ExperienceYears = (%d, %v)", y, ok)
	}
}
