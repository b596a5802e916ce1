package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	domexp "github.com/bconnected/marketplace/internal/domain/expert"
	"github.com/bconnected/marketplace/internal/domain/search/filter"
	"github.com/bconnected/marketplace/internal/domain/search/request"
	"github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/metrics"
)

// FindExpertsName is the tool name exposed to the model.
const FindExpertsName = "findExperts"

// DefaultMaxResults is the number of suggestions returned per call.
const DefaultMaxResults = 3

type findExpertsArgs struct {
	Keywords           *[]string `json:"keywords"`
	MinExperienceYears *float64  `json:"minExperienceYears"`
	MaxRatePerHour     *float64  `json:"maxRatePerHour"`
}

// FindExperts suggests experts by keyword, minimum experience and maximum rate.
type FindExperts struct {
	dir        Directory
	maxResults int
}

// NewFindExperts creates the tool. maxResults <= 0 selects DefaultMaxResults.
func NewFindExperts(dir Directory, maxResults int) *FindExperts {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &FindExperts{dir: dir, maxResults: maxResults}
}

// Definition returns the tool's name, description and parameter schema.
func (f *FindExperts) Definition() Definition {
	return Definition{
		Name:        FindExpertsName,
		Description: "Finds and suggests experts based on user criteria like skills, experience, and rate.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"keywords": {
					Type:        jsonschema.Array,
					Items:       &jsonschema.Definition{Type: jsonschema.String},
					Description: "Keywords or skills the user is looking for in an expert. E.g., ['AI', 'Python', 'UX Design']",
				},
				"minExperienceYears": {
					Type:        jsonschema.Number,
					Description: "Minimum years of experience desired.",
				},
				"maxRatePerHour": {
					Type:        jsonschema.Number,
					Description: "Maximum hourly rate the user is willing to pay.",
				},
			},
			Required: []string{"keywords"},
		},
	}
}

// Execute decodes arguments and runs Find.
func (f *FindExperts) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var a findExpertsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToolArguments, err)
	}
	if a.Keywords == nil {
		return nil, fmt.Errorf("%w: keywords is required", domain.ErrInvalidToolArguments)
	}
	return f.Find(ctx, request.NewCriteria(*a.Keywords, a.MinExperienceYears, a.MaxRatePerHour)), nil
}

// Find returns up to maxResults summaries of experts matching c, in directory order.
func (f *FindExperts) Find(ctx context.Context, c request.Criteria) []domexp.Summary {
	matched := filter.Apply(f.dir.All(), filter.Tool(c)...)
	if len(matched) > f.maxResults {
		matched = matched[:f.maxResults]
	}

	out := make([]domexp.Summary, 0, len(matched))
	for i := range matched {
		out = append(out, domexp.Summarize(&matched[i]))
	}

	metrics.ToolResultsReturned.WithLabelValues(FindExpertsName).Observe(float64(len(out)))
	logger.FromContext(ctx).Info("findExperts",
		zap.Strings("keywords", c.Keywords()),
		zap.Float64("min_experience_years", c.MinExperienceYears()),
		zap.Float64("max_rate_per_hour", c.MaxRatePerHour()),
		zap.Int("returned", len(out)),
	)
	return out
}
