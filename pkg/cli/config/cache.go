package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Cache holds filter cache configuration
type Cache struct {
	Size int
	TTL  time.Duration
}

// Flags returns CLI flags for Cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "cache-size",
			Usage:       "Number of filtered record sets kept in memory",
			Category:    "Cache",
			Value:       usecase.DefaultCacheSize,
			Sources:     cli.EnvVars("SAFETYTRACKER_CACHE_SIZE"),
			Destination: &c.Size,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "Lifetime of a cached filtered record set",
			Category:    "Cache",
			Value:       usecase.DefaultCacheTTL,
			Sources:     cli.EnvVars("SAFETYTRACKER_CACHE_TTL"),
			Destination: &c.TTL,
		},
	}
}

// Configure returns the dashboard cache option
func (c *Cache) Configure() (usecase.DashboardOption, error) {
	if c.Size <= 0 {
		return nil, goerr.New("cache size must be positive", goerr.V("size", c.Size))
	}
	if c.TTL <= 0 {
		return nil, goerr.New("cache TTL must be positive", goerr.V("ttl", c.TTL))
	}
	return usecase.WithCache(c.Size, c.TTL), nil
}

// LogValue returns structured log value
func (c Cache) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size", c.Size),
		slog.Duration("ttl", c.TTL),
	)
}
