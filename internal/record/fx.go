package record

import (
	"github.com/nvillagra/prodtrack/internal/record/localcache"
	"github.com/nvillagra/prodtrack/internal/record/remote"
	"github.com/nvillagra/prodtrack/internal/record/service"
	"go.uber.org/fx"
)

var Module = fx.Module("record.service",
	fx.Provide(
		localcache.New,
		remote.NewRepository,
		remote.NewNotifier,
		service.NewService,
	),
)
