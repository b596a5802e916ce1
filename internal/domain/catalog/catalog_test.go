package catalog

import (
	"testing"
	"time"
)

func TestNormalizeTag(t *testing.T) {
	tests := map[string]string{
		"AI":                    "ai",
		"Deep Learning":         "deep-learning",
		"AI & Machine Learning": "ai-machine-learning",
		"Cybersecurity":         "cybersecurity",
		"UX & UI Design":        "ux-ui-design",
	}
	for in, want := range tests {
		if got := NormalizeTag(in); got != want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExperienceLevel_Contains(t *testing.T) {
	tests := []struct {
		id    string
		years int
		want  bool
	}{
		{"entry", 0, true},
		{"entry", 2, true},
		{"entry", 3, false},
		{"mid", 4, true},
		{"senior", 10, true},
		{"expert", 10, true},
		{"expert", 40, true},
		{"expert", 9, false},
	}
	for _, tc := range tests {
		l, ok := LookupExperienceLevel(tc.id)
		if !ok {
			t.Fatalf("level %q not found", tc.id)
		}
		if got := l.Contains(tc.years); got != tc.want {
			t.Errorf("%s.Contains(%d) = %v, want %v", tc.id, tc.years, got, tc.want)
		}
	}
}

func TestAvailabilityOption_Covers(t *testing.T) {
	today := time.Date(2025, time.June, 27, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return today.AddDate(0, 0, n) }

	now, _ := LookupAvailability("now")
	week, _ := LookupAvailability("next-week")
	month, _ := LookupAvailability("next-month")

	if !now.Covers(today, day(0)) || now.Covers(today, day(1)) {
		t.Error("now should cover today only")
	}
	if !week.Covers(today, day(7)) || week.Covers(today, day(8)) {
		t.Error("next-week should cover 7 days")
	}
	if !month.Covers(today, day(30)) || month.Covers(today, day(31)) {
		t.Error("next-month should cover 30 days")
	}
	if week.Covers(today, day(-1)) {
		t.Error("past days are never covered")
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := LookupExperienceLevel("guru"); ok {
		t.Error("unexpected level")
	}
	if _, ok := LookupAvailability("someday"); ok {
		t.Error("unexpected availability option")
	}
}

func TestCategories_Copy(t *testing.T) {
	c := Categories()
	c[0].ID = "mutated"
	if Categories()[0].ID != "ai-ml" {
		t.Error("Categories leaked internal slice")
	}
}
