package db

import (
	"github.com/nvillagra/prodtrack/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewRemoteDB opens the handle to the remote record table. The ping is left to
// the connectivity prober: opening must succeed even when the device is
// offline, otherwise the app could never start in the field.
func NewRemoteDB(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(RemoteDialect(cfg), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	log.Named("db").Info("remote handle ready",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(NewRemoteDB),
)
