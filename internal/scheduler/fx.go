package scheduler

import (
	"context"

	"github.com/nvillagra/prodtrack/internal/record/remote"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, r *Resyncer, notifier *remote.Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := notifier.Start(ctx); err != nil {
				return err
			}
			return r.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			_ = notifier.Stop(ctx)
			return r.Stop(ctx)
		},
	})
}
