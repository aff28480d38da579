package cmd

import (
	"fmt"

	"recruit-sync/core/bitable"
	"recruit-sync/core/config"
	"recruit-sync/core/database"
	"recruit-sync/core/logger"
	"recruit-sync/feature/dedup"
	"recruit-sync/feature/pipeline"
	"recruit-sync/feature/reconcile"

	"go.uber.org/zap"
)

// app bundles the wired components shared by the commands.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	dedup      *dedup.Deduplicator
	client     bitable.Client
	reconciler *reconcile.Reconciler
	pipeline   *pipeline.Pipeline
}

// newApp loads configuration and wires the logger, cache, remote client and
// pipeline.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open dedup cache: %w", err)
	}

	d, err := dedup.NewDeduplicator(db, logg)
	if err != nil {
		return nil, err
	}

	client, err := bitable.NewClient(cfg.Bitable, logg)
	if err != nil {
		return nil, err
	}

	r := reconcile.NewReconciler(client, cfg.Bitable.MaxBatchSize, logg)

	return &app{
		cfg:        cfg,
		logger:     logg,
		dedup:      d,
		client:     client,
		reconciler: r,
		pipeline:   pipeline.New(d, r, logg),
	}, nil
}
