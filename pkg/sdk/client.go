package bconnected

import (
	"context"
	"fmt"
	"time"

	"github.com/bconnected/marketplace/internal/domain/search/request"
	expertrepo "github.com/bconnected/marketplace/internal/repository/expert"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
	profileuc "github.com/bconnected/marketplace/internal/usecase/profile"
	"github.com/bconnected/marketplace/internal/usecase/tools"
)

const (
	defaultPageSize    = 6
	defaultMaxPageSize = 50
	defaultMaxResults  = 3
)

// Client is an in-process marketplace over the seeded expert directory.
// It is safe for concurrent use.
type Client struct {
	market  *marketplaceuc.Service
	profile *profileuc.Service
	finder  *tools.FindExperts
	tools   *tools.Registry
	obs     *observer
}

// New seeds the directory and wires the marketplace services.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		pageSize:    defaultPageSize,
		maxPageSize: defaultMaxPageSize,
		minPrice:    request.DefaultMinPrice,
		maxPrice:    request.DefaultMaxPrice,
		maxResults:  defaultMaxResults,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.minPrice < 0 || cfg.minPrice > cfg.maxPrice {
		return nil, fmt.Errorf("bconnected: invalid price bounds [%d, %d]", cfg.minPrice, cfg.maxPrice)
	}
	if cfg.maxResults <= 0 {
		return nil, fmt.Errorf("bconnected: max results must be positive, got %d", cfg.maxResults)
	}

	dir, err := expertrepo.Seed(cfg.jitter)
	if err != nil {
		return nil, fmt.Errorf("bconnected: seed directory: %w", err)
	}
	if cfg.shuffle != nil {
		dir = dir.WithShuffle(cfg.shuffle)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	finder := tools.NewFindExperts(dir, cfg.maxResults)
	registry, err := tools.NewRegistry(finder)
	if err != nil {
		return nil, fmt.Errorf("bconnected: tool registry: %w", err)
	}

	return &Client{
		market: marketplaceuc.New(dir, marketplaceuc.Config{
			DefaultPageSize: cfg.pageSize,
			MaxPageSize:     cfg.maxPageSize,
			PriceBounds:     request.PriceRange{Min: cfg.minPrice, Max: cfg.maxPrice},
			StrictFilters:   cfg.strictFilters,
		}),
		profile: profileuc.New(dir),
		finder:  finder,
		tools:   registry,
		obs:     obs,
	}, nil
}

// Experts returns the listing and profile service.
func (c *Client) Experts() *ExpertService {
	return &ExpertService{market: c.market, profile: c.profile, obs: c.obs}
}

// Filters returns the filter vocabularies and price bounds.
func (c *Client) Filters() Filters {
	return filtersFromOptions(c.market.Options())
}

// FindExperts runs the expert-finding tool directly.
func (c *Client) FindExperts(ctx context.Context, crit Criteria) []Summary {
	start := time.Now()
	defer c.obs.observe("find_experts", start, nil)

	hits := c.finder.Find(ctx, request.NewCriteria(crit.Keywords, crit.MinExperienceYears, crit.MaxRatePerHour))
	out := make([]Summary, len(hits))
	for i, h := range hits {
		out[i] = Summary(h)
	}
	return out
}

// CallTool executes a registered tool by name on raw JSON arguments, as a
// model would. The result is JSON-encodable.
func (c *Client) CallTool(ctx context.Context, name string, args []byte) (result any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("call_tool", start, err) }()

	result, err = c.tools.Execute(ctx, name, args)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	return result, nil
}

// ToolNames lists the registered tools.
func (c *Client) ToolNames() []string {
	defs := c.tools.Definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
