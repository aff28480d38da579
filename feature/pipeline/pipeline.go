package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruit-sync/core/logger"
	"recruit-sync/feature/clean"
	"recruit-sync/feature/collect"
	"recruit-sync/feature/dedup"
	"recruit-sync/feature/normalize"
	"recruit-sync/feature/reconcile"
)

// Result summarizes one pipeline run over a single source.
type Result struct {
	// Source is the name of the source that produced the raw records.
	Source string
	// RunID tags every log line of the run.
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time

	// Stage counts, in pipeline order.
	Raw        int
	Normalized int
	Cleaned    int
	Unique     int
	Created    int
	Updated    int
	Failed     int
}

// Pipeline runs the record flow end to end: fetch, normalize, clean,
// deduplicate, reconcile, then register remote ids back into the dedup
// cache. Stages run strictly sequentially.
type Pipeline struct {
	dedup      *dedup.Deduplicator
	reconciler *reconcile.Reconciler
	logger     *zap.Logger
}

// New creates a pipeline around the shared dedup cache and reconciler.
func New(d *dedup.Deduplicator, r *reconcile.Reconciler, log *zap.Logger) *Pipeline {
	return &Pipeline{
		dedup:      d,
		reconciler: r,
		logger:     log,
	}
}

// Run executes one pipeline pass over a source. The returned result is
// populated as far as the run got, even when an error is returned.
func (p *Pipeline) Run(ctx context.Context, source collect.Source) (Result, error) {
	result := Result{
		Source:    source.Name(),
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := logger.WithRun(p.logger, result.RunID)

	log.Info("Pipeline run started", zap.String("source", result.Source))

	raw, err := source.Fetch(ctx)
	if err != nil {
		result.CompletedAt = time.Now()
		return result, err
	}
	result.Raw = len(raw)

	normalizer := normalize.NewNormalizer(log)
	normalized := normalizer.Records(raw)
	result.Normalized = len(normalized)

	cleaner := clean.NewCleaner(log)
	cleaned := cleaner.Records(normalized)
	result.Cleaned = len(cleaned)

	unique, err := p.dedup.FilterBatch(ctx, cleaned)
	if err != nil {
		result.CompletedAt = time.Now()
		return result, err
	}
	result.Unique = len(unique)

	recon, err := p.reconciler.Reconcile(ctx, unique)
	result.Created = recon.Created
	result.Updated = recon.Updated
	result.Failed = recon.Failed
	if err != nil {
		result.CompletedAt = time.Now()
		return result, err
	}

	// Register synced records so later runs see them as duplicates.
	for _, rec := range unique {
		if err := p.dedup.Add(ctx, rec, recon.RemoteIDs[rec.DedupKey()]); err != nil {
			result.CompletedAt = time.Now()
			return result, err
		}
	}

	result.CompletedAt = time.Now()
	log.Info("Pipeline run completed",
		zap.Int("raw", result.Raw),
		zap.Int("cleaned", result.Cleaned),
		zap.Int("unique", result.Unique),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Duration("elapsed", result.CompletedAt.Sub(result.StartedAt)))

	return result, nil
}

// RunAll runs the pipeline over each source in turn. A failing source does
// not stop the remaining ones; the first error is returned after all sources
// ran.
func (p *Pipeline) RunAll(ctx context.Context, sources []collect.Source) ([]Result, error) {
	var results []Result
	var firstErr error

	for _, source := range sources {
		result, err := p.Run(ctx, source)
		results = append(results, result)
		if err != nil {
			p.logger.Error("Pipeline run failed",
				zap.String("source", source.Name()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return results, firstErr
}

// Sources assembles the source list configured for this deployment.
func Sources(cfg Config, log *zap.Logger) []collect.Source {
	var sources []collect.Source

	if cfg.Demo {
		sources = append(sources, collect.NewDemoSource(cfg.DemoCount))
	}
	if cfg.ImportFile != "" {
		sources = append(sources, collect.NewFileSource(cfg.ImportFile, log))
	}
	if cfg.SourceURL != "" {
		fetcher := collect.NewFetcher(cfg.RequestsPerSecond, 3, log)
		sources = append(sources, collect.NewHTMLSource("web", cfg.SourceURL, fetcher, log))
	}

	return sources
}
