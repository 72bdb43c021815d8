// Package poller drives the collect loop: fetch the device document,
// normalize it into a snapshot, publish to the configured sink, sleep,
// repeat.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
	"github.com/couchcryptid/weatherlink-live-collector/internal/observability"
)

// Fetcher retrieves one raw current-conditions document from the device.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Normalizer turns a raw device document into a snapshot, carrying the
// rain-counter state between calls.
type Normalizer interface {
	Normalize(raw []byte) (domain.Snapshot, error)
}

// Sink delivers a snapshot downstream.
type Sink interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Poller runs the fetch/normalize/publish cycle at a fixed cadence.
type Poller struct {
	fetcher    Fetcher
	normalizer Normalizer
	sink       Sink
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock

	interval     time.Duration
	retryBackoff time.Duration

	ready atomic.Bool
}

// New creates a Poller. retryBackoff is the shortened wait after a device
// fetch failure; all other outcomes wait the full interval.
func New(
	fetcher Fetcher,
	normalizer Normalizer,
	sink Sink,
	interval time.Duration,
	retryBackoff time.Duration,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		fetcher:      fetcher,
		normalizer:   normalizer,
		sink:         sink,
		interval:     interval,
		retryBackoff: retryBackoff,
		metrics:      metrics,
		clock:        clock,
		logger:       logger,
	}
}

// Run polls until ctx is cancelled. The first cycle starts immediately.
// Returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	p.metrics.CollectorRunning.Set(1)
	defer p.metrics.CollectorRunning.Set(0)
	defer p.ready.Store(false)

	p.logger.Info("poller starting", "interval", p.interval, "retry_backoff", p.retryBackoff)

	for {
		wait := p.cycle(ctx)

		if err := p.sleep(ctx, wait); err != nil {
			p.logger.Info("poller stopping", "reason", context.Cause(ctx))
			return nil
		}
	}
}

// cycle performs one fetch/normalize/publish pass and returns how long to
// wait before the next one. A transport failure returns the short retry
// backoff; a parse or publish failure skips the cycle but keeps the normal
// cadence, since the device document was at least retrieved.
func (p *Poller) cycle(ctx context.Context) time.Duration {
	fetchStart := p.clock.Now()
	raw, err := p.fetcher.Fetch(ctx)
	p.metrics.FetchDuration.Observe(p.clock.Since(fetchStart).Seconds())
	if err != nil {
		p.metrics.TransportErrors.Inc()
		p.logger.Warn("device fetch failed", "error", err)
		return p.retryBackoff
	}

	snap, err := p.normalizer.Normalize(raw)
	if err != nil {
		p.metrics.ParseErrors.Inc()
		p.logger.Warn("document rejected", "error", err)
		return p.interval
	}

	if err := p.sink.Publish(ctx, snap); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("snapshot publish failed", "error", err)
		return p.interval
	}

	p.metrics.SnapshotsEmitted.Inc()
	p.metrics.SnapshotFields.Observe(float64(len(snap.Fields)))
	if rain, ok := snap.Fields[domain.FieldRain]; ok {
		p.metrics.RainInches.Add(rain)
	}
	p.ready.Store(true)

	p.logger.Debug("snapshot emitted",
		"observed_at", snap.ObservedAt,
		"fields", len(snap.Fields),
	)
	return p.interval
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func (p *Poller) sleep(ctx context.Context, d time.Duration) error {
	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// CheckReadiness reports whether the poller has emitted at least one
// snapshot since starting. Satisfies the readiness probe interface.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return fmt.Errorf("no snapshot emitted yet")
	}
	return nil
}
