package db

import (
	"fmt"

	"github.com/nvillagra/prodtrack/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RemoteDialect builds the dialector for the remote record table.
func RemoteDialect(cfg config.Config) gorm.Dialector {
	return postgres.Open(RemoteDSN(cfg))
}

// RemoteDSN is shared with the migration runner and the LISTEN/NOTIFY consumer.
func RemoteDSN(cfg config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)
}
