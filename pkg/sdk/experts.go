package bconnected

import (
	"context"
	"fmt"
	"time"

	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/domain/search/request"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
	profileuc "github.com/bconnected/marketplace/internal/usecase/profile"
)

// ExpertService lists and fetches experts.
type ExpertService struct {
	market  *marketplaceuc.Service
	profile *profileuc.Service
	obs     *observer
}

// List returns one page of experts matching q.
func (s *ExpertService) List(ctx context.Context, q Query) (page Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list_experts", start, err) }()

	price := s.market.Options().PriceBounds
	if q.MinPrice != nil {
		price.Min = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price.Max = *q.MaxPrice
	}
	req, err := request.New(q.Text, q.Categories, price, q.ExperienceLevels, q.Availability)
	if err != nil {
		return Page{}, fmt.Errorf("list experts: %w: %w", domain.ErrInvalidQuery, err)
	}

	l := s.market.Search(ctx, &req, q.Page, q.PageSize)
	page = Page{
		Experts:    make([]Expert, len(l.Experts)),
		Page:       l.Page,
		PageSize:   l.PageSize,
		TotalPages: l.TotalPages,
		Total:      l.Total,
	}
	for i := range l.Experts {
		page.Experts[i] = expertFromDomain(&l.Experts[i])
	}
	return page, nil
}

// Get returns one expert by id.
func (s *ExpertService) Get(ctx context.Context, id string) (e Expert, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get_expert", start, err) }()

	d, err := s.profile.Get(id)
	if err != nil {
		return Expert{}, err
	}
	return expertFromDomain(&d), nil
}

// Related returns a random sample of count other experts; count <= 0 means 3.
func (s *ExpertService) Related(ctx context.Context, id string, count int) (out []Expert, err error) {
	start := time.Now()
	defer func() { s.obs.observe("related_experts", start, err) }()

	rel, err := s.profile.Related(id, count)
	if err != nil {
		return nil, err
	}
	out = make([]Expert, len(rel))
	for i := range rel {
		out[i] = expertFromDomain(&rel[i])
	}
	return out, nil
}

// Calendar returns the booking calendar; a nil date selects the first available day.
func (s *ExpertService) Calendar(ctx context.Context, id string, date *time.Time) (cal Calendar, err error) {
	start := time.Now()
	defer func() { s.obs.observe("expert_calendar", start, err) }()

	c, err := s.profile.Calendar(id, date)
	if err != nil {
		return Calendar{}, err
	}
	return Calendar(c), nil
}
