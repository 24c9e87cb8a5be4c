package migration

import (
	"context"

	"github.com/nvillagra/prodtrack/internal/connectivity"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module applies migrations when the remote is reachable. Startup while
// disconnected is normal for this app; migrations then wait for the next
// online start.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, checker connectivity.Checker, log *zap.Logger) error {
		if !checker.Online(context.Background()) {
			log.Named("migrations").Warn("remote unreachable, skipping migrations")
			return nil
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return Run(sqlDB)
	}),
)
