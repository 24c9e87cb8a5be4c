// Package localstore is the device-durable key-value storage backing the
// record cache and the settings object. Schema migrations happen by bumping
// the key name, never by rewriting stored values in place.
package localstore

import (
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nvillagra/prodtrack/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one versioned key holding a JSON payload.
type Entry struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string { return "local_kv" }

// Store wraps the sqlite file. Reads and writes are synchronous: the local
// path must never depend on the network.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: conn}, nil
}

func NewFromConfig(cfg config.Config) (*Store, error) {
	return Open(cfg.LocalCachePath)
}

// Get returns the stored payload for key, or false when the key is absent.
func (s *Store) Get(key string) ([]byte, bool) {
	var entry Entry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		return nil, false
	}
	return entry.Value, true
}

// Put replaces the payload under key.
func (s *Store) Put(key string, value []byte) error {
	if key == "" {
		return errors.New("missing_key")
	}
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.Save(&entry).Error
}

var Module = fx.Module("localstore",
	fx.Provide(NewFromConfig),
)
