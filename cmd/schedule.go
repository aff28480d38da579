package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"recruit-sync/feature/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runState tracks the outcome of the most recent scheduled run for the
// health endpoint.
type runState struct {
	mu       sync.Mutex
	lastRun  time.Time
	lastErr  string
	runCount int
	results  []pipeline.Result
}

func (s *runState) record(results []pipeline.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRun = time.Now()
	s.runCount++
	s.results = results
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
}

func (s *runState) snapshot() fiber.Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "ok"
	if s.lastErr != "" {
		status = "degraded"
	}
	if s.runCount == 0 {
		status = "starting"
	}

	summaries := make([]fiber.Map, 0, len(s.results))
	for _, r := range s.results {
		summaries = append(summaries, fiber.Map{
			"source":  r.Source,
			"run_id":  r.RunID,
			"raw":     r.Raw,
			"cleaned": r.Cleaned,
			"unique":  r.Unique,
			"created": r.Created,
			"updated": r.Updated,
			"failed":  r.Failed,
		})
	}

	return fiber.Map{
		"status":     status,
		"runs":       s.runCount,
		"last_run":   s.lastRun,
		"last_error": s.lastErr,
		"sources":    summaries,
	}
}

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a schedule with a health endpoint",
	Long: `Runs one pipeline pass immediately, then repeats it at the configured
interval. Exposes a /health HTTP endpoint reporting the latest run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		sources := pipeline.Sources(a.cfg.Pipeline, a.logger)
		if len(sources) == 0 {
			return fmt.Errorf("no sources configured")
		}

		state := &runState{}
		runOnce := func() {
			results, err := a.pipeline.RunAll(context.Background(), sources)
			state.record(results, err)

			if removed, err := a.dedup.Cleanup(context.Background(), a.cfg.Pipeline.RetentionDays); err != nil {
				a.logger.Error("Cache cleanup failed", zap.Error(err))
			} else if removed > 0 {
				a.logger.Info("Purged stale cache entries", zap.Int64("removed", removed))
			}
		}

		// First pass right away; the cron only handles repeats.
		runOnce()

		c := cron.New()
		spec := fmt.Sprintf("@every %dh", a.cfg.Pipeline.IntervalHours)
		if _, err := c.AddFunc(spec, runOnce); err != nil {
			return fmt.Errorf("failed to schedule pipeline: %w", err)
		}
		c.Start()
		a.logger.Info("Scheduler started",
			zap.Int("interval_hours", a.cfg.Pipeline.IntervalHours),
			zap.Int("sources", len(sources)))

		appSrv := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})
		appSrv.Get("/health", func(ctx *fiber.Ctx) error {
			return ctx.JSON(state.snapshot())
		})

		go func() {
			a.logger.Info("Starting health server", zap.String("port", a.cfg.Server.Port))
			if err := appSrv.Listen(":" + a.cfg.Server.Port); err != nil {
				a.logger.Fatal("Health server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		a.logger.Info("Shutting down...")
		<-c.Stop().Done()
		_ = appSrv.Shutdown()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(scheduleCmd)
}
