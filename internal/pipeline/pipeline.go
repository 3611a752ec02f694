package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/observability"
)

// Source loads the three raw input tables.
type Source interface {
	Load(ctx context.Context) (domain.Tables, error)
}

// Sink receives every dataset after it is published to the Store.
type Sink interface {
	Publish(ctx context.Context, ds *Dataset) error
}

// Pipeline orchestrates load, prepare and publish, and optionally repeats it on
// a fixed interval.
type Pipeline struct {
	source  Source
	store   *Store
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	clock   clockwork.Clock
}

// New creates a Pipeline that publishes into store and then to each sink.
func New(source Source, store *Store, logger *slog.Logger, metrics *observability.Metrics, opts Options, sinks ...Sink) *Pipeline {
	return &Pipeline{
		source:  source,
		store:   store,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
		clock:   clock,
	}
}

// Store returns the store the pipeline publishes into.
func (p *Pipeline) Store() *Store { return p.store }

// Run builds the first dataset and then refreshes it until ctx is cancelled.
// A failed first build is returned; later failures keep the previous dataset.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}
	return p.Watch(ctx)
}

// Build loads the tables, prepares a dataset and publishes it. Sink failures
// are logged and counted; the dataset stays published.
func (p *Pipeline) Build(ctx context.Context) (*Dataset, error) {
	start := p.clock.Now()

	tables, err := p.source.Load(ctx)
	if err != nil {
		p.metrics.PrepareErrors.Inc()
		return nil, fmt.Errorf("load tables: %w", err)
	}
	p.metrics.RowsRead.WithLabelValues(domain.TableGames).Add(float64(len(tables.Games)))
	p.metrics.RowsRead.WithLabelValues(domain.TableRatings).Add(float64(len(tables.Ratings)))
	p.metrics.RowsRead.WithLabelValues(domain.TableCapacity).Add(float64(len(tables.Capacity)))

	ds, err := prepare(tables, p.opts, p.clock.Now())
	if err != nil {
		p.metrics.PrepareErrors.Inc()
		return nil, err
	}
	ds.ID = uuid.NewString()
	p.record(ds.Report)

	p.store.Swap(ds)
	p.metrics.EnrichedGames.Set(float64(len(ds.Games)))
	p.metrics.TeamsWithoutGames.Set(float64(len(ds.Report.EmptyTeams)))
	p.metrics.DatasetReady.Set(1)

	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, ds); err != nil {
			p.metrics.SinkErrors.Inc()
			p.logger.Error("sink publish failed", "error", err)
		}
	}

	p.metrics.PrepareDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("dataset prepared",
		"dataset_id", ds.ID,
		"games", len(ds.Games),
		"teams", len(ds.Teams),
		"prepared_at", ds.PreparedAt,
	)
	return ds, nil
}

// Watch rebuilds the dataset every RefreshInterval until ctx is cancelled. It
// returns immediately when refresh is disabled.
func (p *Pipeline) Watch(ctx context.Context) error {
	if p.opts.RefreshInterval <= 0 {
		return nil
	}
	p.logger.Info("dataset refresh enabled", "interval", p.opts.RefreshInterval)

	ticker := p.clock.NewTicker(p.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("dataset refresh stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if _, err := p.Build(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.logger.Warn("dataset refresh failed, keeping previous dataset", "error", err)
			}
		}
	}
}

// record exports the report's counters and logs join losses and empty teams.
func (p *Pipeline) record(r Report) {
	p.metrics.RowsPatched.WithLabelValues("duration").Add(float64(r.DurationPatches))
	p.metrics.RowsPatched.WithLabelValues("attend").Add(float64(r.AttendancePatches))

	for _, loss := range []JoinLoss{r.DroppedByRatings, r.DroppedByCapacity} {
		p.metrics.RowsDropped.WithLabelValues(loss.Join).Add(float64(loss.Dropped))
		if loss.Dropped > 0 {
			p.logger.Warn("join dropped games",
				"join", loss.Join,
				"dropped", loss.Dropped,
				"sample_keys", loss.Keys,
			)
		}
	}

	if len(r.EmptyTeams) > 0 {
		p.logger.Warn("tracked teams without games", "teams", r.EmptyTeams)
	}
}
