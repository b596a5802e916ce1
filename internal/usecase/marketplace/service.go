package marketplace

import (
	"context"
	"time"

	"github.com/bconnected/marketplace/internal/domain/catalog"
	domexp "github.com/bconnected/marketplace/internal/domain/expert"
	"github.com/bconnected/marketplace/internal/domain/search/filter"
	"github.com/bconnected/marketplace/internal/domain/search/page"
	"github.com/bconnected/marketplace/internal/domain/search/request"
	"github.com/bconnected/marketplace/internal/logger"
	"go.uber.org/zap"
)

// Config controls listing behavior.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	PriceBounds     request.PriceRange
	// StrictFilters turns on experience and availability filtering.
	StrictFilters bool
}

// Listing is one page of filtered experts.
type Listing struct {
	Experts    []domexp.Expert
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Options is the filter vocabulary offered to clients.
type Options struct {
	Categories       []catalog.Option
	ExperienceLevels []catalog.ExperienceLevel
	Availability     []catalog.AvailabilityOption
	PriceBounds      request.PriceRange
	StrictFilters    bool
}

// Service filters and paginates the expert directory.
type Service struct {
	dir Directory
	cfg Config
	now func() time.Time
}

// New creates a marketplace service.
func New(dir Directory, cfg Config) *Service {
	return &Service{dir: dir, cfg: cfg, now: time.Now}
}

// WithClock overrides the clock used to anchor availability horizons.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search applies req to the directory and returns the requested page.
// A page outside [1, TotalPages] is ignored and page 1 is served.
// pageSize <= 0 selects the default; larger than the maximum is clamped.
func (s *Service) Search(ctx context.Context, req *request.Request, pageNum, pageSize int) Listing {
	size := s.pageSize(pageSize)
	preds := filter.Marketplace(req, filter.Options{Strict: s.cfg.StrictFilters, Today: s.now()})
	matched := filter.Apply(s.dir.All(), preds...)

	total := page.TotalPages(len(matched), size)
	pager := page.NewPager(total)
	if pageNum != 0 && !pager.Goto(pageNum) {
		logger.FromContext(ctx).Debug("page out of range, serving current page",
			zap.Int("requested", pageNum),
			zap.Int("total_pages", total),
		)
	}

	items := page.Slice(matched, size, pager.Current())
	if items == nil {
		items = []domexp.Expert{}
	}
	return Listing{
		Experts:    items,
		Page:       pager.Current(),
		PageSize:   size,
		TotalPages: total,
		Total:      len(matched),
	}
}

// Options returns the filter catalogs and price bounds.
func (s *Service) Options() Options {
	return Options{
		Categories:       catalog.Categories(),
		ExperienceLevels: catalog.ExperienceLevels(),
		Availability:     catalog.AvailabilityOptions(),
		PriceBounds:      s.cfg.PriceBounds,
		StrictFilters:    s.cfg.StrictFilters,
	}
}

func (s *Service) pageSize(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && requested > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return requested
}
