package canonical

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"where-to-watch-service/internal/logging"
)

// Refresher rereads the provider map artifact on an interval so a freshly
// harvested artifact is picked up without a restart. An interval of zero
// disables refreshing entirely.
type Refresher struct {
	loader   *Loader
	logger   *slog.Logger
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   RefreshStatus
}

// RefreshStatus describes the recent health of the refresh loop.
type RefreshStatus struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// NewRefresher constructs a Refresher around the given loader.
func NewRefresher(loader *Loader, logger *slog.Logger, interval time.Duration) *Refresher {
	return &Refresher{
		loader:   loader,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
// A zero or negative interval makes Start a no-op.
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.ticker = time.NewTicker(r.interval)

	go func() {
		logging.Info(r.logger, "provider map refresher started",
			slog.Int64(logging.FieldDurationMS, r.interval.Milliseconds()))

		for {
			select {
			case <-ctx.Done():
				r.stopTicker()
				logging.Info(r.logger, "provider map refresher stopped")
				return
			case <-r.done:
				r.stopTicker()
				logging.Info(r.logger, "provider map refresher stopped")
				return
			case <-r.ticker.C:
				r.refreshOnce()
			}
		}
	}()
}

// Stop halts the refresh loop.
func (r *Refresher) Stop(ctx context.Context) error {
	_ = ctx
	r.stopOnce.Do(func() {
		close(r.done)
		r.stopTicker()
	})
	return nil
}

func (r *Refresher) refreshOnce() {
	now := time.Now()
	if err := r.loader.Reload(); err != nil {
		logging.Warn(r.logger, "provider map refresh failed", slog.Any("err", err))
		r.recordFailure(err, now)
		return
	}
	r.recordSuccess(now)
}

func (r *Refresher) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
}

func (r *Refresher) recordSuccess(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastAttempt = at
	r.status.LastSuccess = at
}

func (r *Refresher) recordFailure(err error, at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	if err != nil {
		r.status.LastError = err.Error()
	}
	r.status.LastAttempt = at
}

// Status returns a snapshot of the refresher's recent health.
func (r *Refresher) Status() RefreshStatus {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
