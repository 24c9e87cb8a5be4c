// Package connectivity decides whether the record store may take the remote
// path. The probe is a short-timeout ping; on any doubt the store falls back
// to the local cache.
package connectivity

import (
	"context"
	"time"

	"github.com/nvillagra/prodtrack/internal/cache"
	"github.com/nvillagra/prodtrack/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Checker interface {
	Online(ctx context.Context) bool
}

type Params struct {
	fx.In

	DB     *gorm.DB
	Config config.Config
	Log    *zap.Logger
}

// probeCacheTTL bounds how stale a cached probe result may be. Short enough
// that a reconnect is noticed within seconds, long enough that a burst of
// operations shares one ping.
const probeCacheTTL = 3 * time.Second

const probeCacheKey = "online"

type dbChecker struct {
	db      *gorm.DB
	timeout time.Duration
	probes  cache.Cache[string, bool]
	log     *zap.Logger
}

func New(p Params) Checker {
	timeout := p.Config.ProbeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &dbChecker{
		db:      p.DB,
		timeout: timeout,
		probes:  cache.NewTTLCache[string, bool](),
		log:     p.Log.Named("connectivity"),
	}
}

func (c *dbChecker) Online(ctx context.Context) bool {
	if online, ok := c.probes.Get(probeCacheKey); ok {
		return online
	}
	online := c.probe(ctx)
	c.probes.Set(probeCacheKey, online, probeCacheTTL)
	return online
}

func (c *dbChecker) probe(ctx context.Context) bool {
	sqlDB, err := c.db.DB()
	if err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		c.log.Debug("remote unreachable", zap.Error(err))
		return false
	}
	return true
}

var Module = fx.Module("connectivity",
	fx.Provide(New),
)
