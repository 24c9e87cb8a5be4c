package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nvillagra/prodtrack/internal/clock"
	"github.com/nvillagra/prodtrack/internal/connectivity"
	"github.com/nvillagra/prodtrack/internal/metrics"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/nvillagra/prodtrack/internal/record/localcache"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Cache    *localcache.Cache
	Remote   recorddomain.RemoteRepository
	Checker  connectivity.Checker
	Settings settingsdomain.Store
	Clock    clock.Clock
	Metrics  *metrics.Metrics `optional:"true"`
}

// Service reconciles the durable local cache with the remote table, favoring
// availability over strict consistency. Operations serialize on one mutex:
// the cache read-modify-write must never interleave between two in-flight
// calls.
type Service struct {
	mu sync.Mutex

	log      *zap.Logger
	genID    *snowflake.Node
	cache    *localcache.Cache
	remote   recorddomain.RemoteRepository
	checker  connectivity.Checker
	settings settingsdomain.Store
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewService(p ServiceParam) recorddomain.Service {
	return &Service{
		log:      p.Log.Named("record.service"),
		genID:    p.GenID,
		cache:    p.Cache,
		remote:   p.Remote,
		checker:  p.Checker,
		settings: p.Settings,
		clock:    p.Clock,
		metrics:  p.Metrics,
	}
}

// List returns the authoritative current record list. Disconnected, it serves
// the cache verbatim; connected, it fetches the remote set, uploads anything
// the cache holds that the remote does not, and overwrites the cache with the
// merged result. A record present in the cache before the call is never
// silently dropped, whatever the remote does.
func (s *Service) List(ctx context.Context) []recorddomain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx)
}

func (s *Service) list(ctx context.Context) []recorddomain.Record {
	local := s.cache.Load()
	if !s.checker.Online(ctx) {
		s.countFallback()
		return local
	}

	remote, err := s.remote.ListOrdered(ctx)
	if err != nil {
		s.log.Warn("remote list failed, serving cache", zap.Error(err))
		s.countFallback()
		return local
	}

	result := remote
	pending := subtractByID(local, remote)
	if len(pending) > 0 {
		if err := s.remote.Insert(ctx, pending); err != nil {
			// Best-effort visibility: unsynced records stay in the session
			// and keep their LOCAL_ONLY tag for the next attempt.
			s.log.Warn("pending upload failed",
				zap.Int("pending", len(pending)),
				zap.Error(err),
			)
		} else {
			for i := range pending {
				pending[i].SyncState = recorddomain.SyncSynced
			}
			if s.metrics != nil {
				s.metrics.SyncUploads.Add(float64(len(pending)))
			}
			s.log.Info("uploaded pending records", zap.Int("count", len(pending)))
		}
		result = append(result, pending...)
	}

	recorddomain.SortByCreatedAt(result)
	s.cache.Store(result)
	return result
}

// Add creates exactly req.Quantity individual records sharing the resolved
// date, each one millisecond apart so ordering within the batch is
// deterministic. The unit price is snapshotted from settings at call time
// unless the request carries a manual amount.
func (s *Service) Add(ctx context.Context, req recorddomain.AddRequest) ([]recorddomain.Record, error) {
	if !req.Type.Valid() {
		return nil, recorddomain.ErrInvalidType
	}
	if req.Quantity < 1 {
		return nil, recorddomain.ErrInvalidQuantity
	}

	now := s.clock.Now().UTC()
	date := req.Date
	if date == "" {
		date = now.Format(recorddomain.DateLayout)
	} else if _, err := time.Parse(recorddomain.DateLayout, date); err != nil {
		return nil, recorddomain.ErrInvalidDate
	}

	amount := s.settings.EffectivePrice(req.Type)
	if req.Amount != nil && !req.Amount.IsNegative() {
		amount = *req.Amount
	}

	records := make([]recorddomain.Record, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		record := recorddomain.Record{
			ID:          s.genID.Generate(),
			Type:        req.Type,
			Quantity:    1,
			Amount:      amount,
			Date:        date,
			Description: req.Description,
			Notes:       req.Notes,
			SyncState:   recorddomain.SyncLocalOnly,
			CreatedAt:   now.Add(time.Duration(i) * time.Millisecond),
		}
		if req.Type == recorddomain.TypeService {
			// Free-form service entries are single units; quantity is absent.
			record.Quantity = 0
		}
		records = append(records, record)
	}

	if s.metrics != nil {
		s.metrics.RecordsCreated.WithLabelValues(string(req.Type)).Add(float64(len(records)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checker.Online(ctx) {
		if err := s.remote.Insert(ctx, records); err == nil {
			// Commit the accepted records to the cache before re-listing so a
			// failing re-list still serves them from the fallback path.
			for i := range records {
				records[i].SyncState = recorddomain.SyncSynced
			}
			merged := append(s.cache.Load(), records...)
			recorddomain.SortByCreatedAt(merged)
			s.cache.Store(merged)
			return s.list(ctx), nil
		} else {
			s.log.Warn("remote insert failed, caching locally", zap.Error(err))
		}
	}

	s.countFallback()
	merged := append(s.cache.Load(), records...)
	recorddomain.SortByCreatedAt(merged)
	s.cache.Store(merged)
	return merged, nil
}

// Delete removes one record by identifier. Deleting an id nobody holds
// returns the unchanged list.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) []recorddomain.Record {
	if s.metrics != nil {
		s.metrics.RecordsDeleted.Inc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checker.Online(ctx) {
		if err := s.remote.DeleteByID(ctx, id); err == nil {
			// Drop the id from the cache first or the re-list would treat it
			// as pending and upload it right back.
			s.cache.Store(filterOut(s.cache.Load(), id))
			return s.list(ctx)
		} else {
			s.log.Warn("remote delete failed, removing locally", zap.Error(err))
		}
	}

	s.countFallback()
	filtered := filterOut(s.cache.Load(), id)
	s.cache.Store(filtered)
	return filtered
}

// ExportBackup serializes the entire local cache; pure, no network.
func (s *Service) ExportBackup() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.cache.Load())
}

// ImportBackup overwrites the local cache with the parsed payload. It rejects
// anything that is not a well-formed record list and leaves the cache
// untouched on failure; afterwards the next List reflects the imported set.
func (s *Service) ImportBackup(payload []byte) error {
	var records []recorddomain.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return recorddomain.ErrInvalidBackup
	}
	if records == nil {
		return recorddomain.ErrInvalidBackup
	}
	for _, record := range records {
		if record.ID == 0 || !record.Type.Valid() {
			return recorddomain.ErrInvalidBackup
		}
	}

	recorddomain.SortByCreatedAt(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Store(records)
	return nil
}

func (s *Service) countFallback() {
	if s.metrics != nil {
		s.metrics.OfflineFallbacks.Inc()
	}
}

// subtractByID returns the cache records absent from the remote set.
func subtractByID(local, remote []recorddomain.Record) []recorddomain.Record {
	seen := make(map[snowflake.ID]struct{}, len(remote))
	for _, record := range remote {
		seen[record.ID] = struct{}{}
	}
	var pending []recorddomain.Record
	for _, record := range local {
		if _, ok := seen[record.ID]; !ok {
			record.SyncState = recorddomain.SyncLocalOnly
			pending = append(pending, record)
		}
	}
	return pending
}

func filterOut(records []recorddomain.Record, id snowflake.ID) []recorddomain.Record {
	filtered := make([]recorddomain.Record, 0, len(records))
	for _, record := range records {
		if record.ID != id {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
