// Package pipeline orchestrates the batch flow from raw post files to
// standardized incident files.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	"github.com/couchcryptid/incident-feed-etl/internal/observability"
)

// Transformer converts a raw post into a standardized incident.
type Transformer interface {
	Transform(ctx context.Context, post domain.RawPost) domain.StandardizedIncident
}

// BatchStore reads raw post batches and writes processed incident batches.
type BatchStore interface {
	ListUnprocessed() ([]string, error)
	ReadRawPosts(name string) ([]domain.RawPost, error)
	WriteIncidents(name string, incidents []domain.StandardizedIncident) error
}

// Publisher forwards a processed batch to downstream consumers.
type Publisher interface {
	PublishBatch(ctx context.Context, incidents []domain.StandardizedIncident) error
}

// Pipeline scans for unprocessed batch files and runs each one through the
// transform-write-publish cycle.
type Pipeline struct {
	store        BatchStore
	transformer  Transformer
	publisher    Publisher
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
	scanInterval time.Duration
}

// New creates a Pipeline. Pass a nil publisher to disable downstream
// publishing.
func New(store BatchStore, t Transformer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, scanInterval time.Duration) *Pipeline {
	return &Pipeline{
		store:        store,
		transformer:  t,
		publisher:    pub,
		logger:       logger,
		metrics:      metrics,
		scanInterval: scanInterval,
	}
}

// CheckReadiness returns nil once the pipeline has processed at least one
// batch file, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any batches yet")
	}
	return nil
}

// Run executes the scan-process loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "scan_interval", p.scanInterval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops when the data
	// directory is unreadable.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.scanOnce(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// scanOnce runs one scan cycle over the raw data directory. Returns false if
// the pipeline should stop.
func (p *Pipeline) scanOnce(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	names, err := p.store.ListUnprocessed()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("scan failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}
	*backoff = 200 * time.Millisecond

	for _, name := range names {
		if ctx.Err() != nil {
			return false
		}
		if err := p.ProcessFile(ctx, name); err != nil {
			p.logger.Error("batch failed", "error", err, "file", name)
			p.metrics.BatchFailures.Inc()
		}
	}

	return sleepWithContext(ctx, p.scanInterval)
}

// ProcessFile runs one batch file through the full cycle: read, transform
// each post in order, write the output file, then publish. A read or write
// error fails the whole batch; per-record enrichment failures only degrade
// the affected record.
func (p *Pipeline) ProcessFile(ctx context.Context, name string) error {
	start := time.Now()

	posts, err := p.store.ReadRawPosts(name)
	if err != nil {
		return err
	}

	incidents := make([]domain.StandardizedIncident, 0, len(posts))
	for _, post := range posts {
		incident := p.transformer.Transform(ctx, post)
		if incident.IncidentType == domain.IncidentUnknown {
			p.metrics.UnknownIncidents.Inc()
		}
		incidents = append(incidents, incident)
	}
	p.metrics.PostsProcessed.Add(float64(len(posts)))

	if err := p.store.WriteIncidents(name, incidents); err != nil {
		return err
	}

	// The output file is already on disk at this point, so a publish
	// failure is logged rather than failing the batch: re-running would
	// duplicate downstream messages without changing the file.
	if p.publisher != nil && len(incidents) > 0 {
		if err := p.publisher.PublishBatch(ctx, incidents); err != nil {
			p.logger.Error("publish batch failed", "error", err, "file", name)
		} else {
			p.metrics.IncidentsPublished.Add(float64(len(incidents)))
		}
	}

	p.metrics.BatchesProcessed.Inc()
	p.metrics.BatchSize.Observe(float64(len(posts)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("batch processed", "file", name, "posts", len(posts))
	return nil
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
