package remote

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/nvillagra/prodtrack/internal/config"
	"github.com/nvillagra/prodtrack/pkg/db"
	"go.uber.org/zap"
)

const notifyChannel = "records_changed"

// Notifier consumes change events the remote table emits on every insert,
// update or delete and coalesces them into a resync signal.
type Notifier struct {
	dsn     string
	log     *zap.Logger
	changes chan struct{}
	done    chan struct{}
}

func NewNotifier(cfg config.Config, log *zap.Logger) *Notifier {
	return &Notifier{
		dsn:     db.RemoteDSN(cfg),
		log:     log.Named("record.notifier"),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Changes signals whenever the remote table reports a change by any source.
// Signals are coalesced: a pending one is enough, the consumer re-lists
// unconditionally anyway.
func (n *Notifier) Changes() <-chan struct{} { return n.changes }

// Start opens the LISTEN connection and forwards notifications until Stop.
// Connection drops are retried by the listener itself.
func (n *Notifier) Start(ctx context.Context) error {
	listener := pq.NewListener(n.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			n.log.Warn("listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	if err := listener.Listen(notifyChannel); err != nil {
		// Offline start is fine; the periodic resync covers the gap.
		n.log.Warn("listen failed, realtime updates disabled", zap.Error(err))
		_ = listener.Close()
		return nil
	}

	go func() {
		defer listener.Close()
		for {
			select {
			case <-n.done:
				return
			case notification := <-listener.Notify:
				if notification == nil {
					// nil means the connection was re-established; resync to
					// cover anything missed while down.
					n.signal()
					continue
				}
				n.log.Debug("remote change", zap.String("op", notification.Extra))
				n.signal()
			}
		}
	}()
	return nil
}

func (n *Notifier) Stop(ctx context.Context) error {
	close(n.done)
	return nil
}

func (n *Notifier) signal() {
	select {
	case n.changes <- struct{}{}:
	default:
	}
}
