package settings

import (
	"github.com/nvillagra/prodtrack/internal/settings/store"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.store",
	fx.Provide(store.New),
)
