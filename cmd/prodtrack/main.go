package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nvillagra/prodtrack/internal/assistant"
	"github.com/nvillagra/prodtrack/internal/clock"
	"github.com/nvillagra/prodtrack/internal/config"
	"github.com/nvillagra/prodtrack/internal/connectivity"
	"github.com/nvillagra/prodtrack/internal/intent"
	"github.com/nvillagra/prodtrack/internal/localstore"
	"github.com/nvillagra/prodtrack/internal/logger"
	"github.com/nvillagra/prodtrack/internal/metrics"
	"github.com/nvillagra/prodtrack/internal/migration"
	"github.com/nvillagra/prodtrack/internal/overview"
	"github.com/nvillagra/prodtrack/internal/record"
	"github.com/nvillagra/prodtrack/internal/scheduler"
	"github.com/nvillagra/prodtrack/internal/server"
	"github.com/nvillagra/prodtrack/internal/settings"
	"github.com/nvillagra/prodtrack/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		localstore.Module,
		connectivity.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		settings.Module,
		record.Module,
		intent.Module,
		assistant.Module,
		overview.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return node
}
