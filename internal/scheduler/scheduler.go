package scheduler

import (
	"context"
	"time"

	"github.com/nvillagra/prodtrack/internal/config"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/nvillagra/prodtrack/internal/record/remote"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Resyncer keeps the local cache converging with the remote table. It
// re-lists on a fixed interval and whenever the change notifier fires.
// Listing already reconciles pending local records, so a resync doubles
// as the upload path after a reconnect.
type Resyncer struct {
	records  recorddomain.Service
	notifier *remote.Notifier
	interval time.Duration
	log      *zap.Logger
	done     chan struct{}
	stopped  chan struct{}
}

type Params struct {
	fx.In

	Config   config.Config
	Records  recorddomain.Service
	Notifier *remote.Notifier
	Log      *zap.Logger
}

func New(p Params) *Resyncer {
	interval := p.Config.ResyncInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Resyncer{
		records:  p.Records,
		notifier: p.Notifier,
		interval: interval,
		log:      p.Log.Named("resyncer"),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (r *Resyncer) Start(ctx context.Context) error {
	go r.run()
	return nil
}

func (r *Resyncer) Stop(ctx context.Context) error {
	close(r.done)
	select {
	case <-r.stopped:
	case <-ctx.Done():
	}
	return nil
}

func (r *Resyncer) run() {
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.resync("interval")
		case <-r.notifier.Changes():
			r.resync("notify")
		}
	}
}

func (r *Resyncer) resync(reason string) {
	records := r.records.List(context.Background())
	r.log.Debug("resync", zap.String("reason", reason), zap.Int("records", len(records)))
}
