// Package localcache persists the record list under a versioned key so the
// store keeps working with no network path available.
package localcache

import (
	"encoding/json"

	"github.com/nvillagra/prodtrack/internal/localstore"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"go.uber.org/zap"
)

// StorageKey carries the schema version; bumping it is the migration strategy.
const StorageKey = "records.v2"

type Cache struct {
	store *localstore.Store
	log   *zap.Logger
}

func New(store *localstore.Store, log *zap.Logger) *Cache {
	return &Cache{store: store, log: log.Named("record.localcache")}
}

// Load returns the cached record list. A missing or unparsable payload yields
// an empty list; the cache never fails the calling operation.
func (c *Cache) Load() []recorddomain.Record {
	raw, ok := c.store.Get(StorageKey)
	if !ok {
		return []recorddomain.Record{}
	}
	var records []recorddomain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		c.log.Warn("discarding unreadable cache payload", zap.Error(err))
		return []recorddomain.Record{}
	}
	return records
}

// Store overwrites the cache with the given list.
func (c *Cache) Store(records []recorddomain.Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		c.log.Error("marshal record cache", zap.Error(err))
		return
	}
	if err := c.store.Put(StorageKey, raw); err != nil {
		c.log.Error("persist record cache", zap.Error(err))
	}
}
