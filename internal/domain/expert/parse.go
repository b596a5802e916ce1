package expert

import (
	"strconv"
	"strings"
)

// ParseRate extracts the leading integer of a "$<n>/hr" string, so
// "$475.50/hr" reads as 475. A rate without leading digits is rejected.
func ParseRate(rate string) (int, bool) {
	s := strings.TrimSpace(rate)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	return parseNonNegative(leadingDigits(s))
}

// ParseExperienceYears extracts the leading integer of an experience string
// such as "14+ years" or "8 years".
func ParseExperienceYears(experience string) (int, bool) {
	return parseNonNegative(leadingDigits(strings.TrimSpace(experience)))
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func parseNonNegative(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
