package bconnected

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	pageSize      int
	maxPageSize   int
	minPrice      int
	maxPrice      int
	strictFilters bool
	maxResults    int

	jitter  func() float64
	shuffle func(n int, swap func(i, j int))

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithPageSize sets the default listing page size. Default: 6.
func WithPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = size
	})
}

// WithMaxPageSize caps caller-supplied page sizes. Default: 50.
func WithMaxPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = size
	})
}

// WithPriceBounds sets the price slider range reported by Filters.
func WithPriceBounds(minPrice, maxPrice int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minPrice = minPrice
		c.maxPrice = maxPrice
	})
}

// WithStrictFilters makes experience and availability selections filter the listing.
// They are accepted and ignored otherwise.
func WithStrictFilters() Option {
	return optionFunc(func(c *clientConfig) {
		c.strictFilters = true
	})
}

// WithMaxResults sets how many experts FindExperts returns at most. Default: 3.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithRatingJitter sets the source of clone rating jitter, in [0,1).
// A constant makes the seeded directory reproducible.
func WithRatingJitter(fn func() float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.jitter = fn
	})
}

// WithShuffle replaces the shuffle used to sample related experts.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return optionFunc(func(c *clientConfig) {
		c.shuffle = fn
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
