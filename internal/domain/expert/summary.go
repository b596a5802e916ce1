package expert

import "strings"

// SummarySkills is the number of leading skills joined into a summary preview.
const SummarySkills = 3

// Summary is the compact projection handed to the completion service.
type Summary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Rate            string `json:"rate"`
	SkillsSummary   string `json:"skillsSummary"`
}

// Summarize projects e to a Summary.
func Summarize(e *Expert) Summary {
	skills := e.Skills()
	if len(skills) > SummarySkills {
		skills = skills[:SummarySkills]
	}
	return Summary{
		ID:              e.ID(),
		Name:            e.Name(),
		Title:           e.Title(),
		ProfileImageURL: e.ProfileImageURL(),
		Rate:            e.Rate(),
		SkillsSummary:   strings.Join(skills, ", "),
	}
}
