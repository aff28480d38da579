package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCleanupDays int

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the dedup cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		size, err := a.dedup.Size(context.Background())
		if err != nil {
			return err
		}

		a.logger.Info("Dedup cache stats", zap.Int64("entries", size))
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove cache entries older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		days := cacheCleanupDays
		if days <= 0 {
			days = a.cfg.Pipeline.RetentionDays
		}

		removed, err := a.dedup.Cleanup(context.Background(), days)
		if err != nil {
			return err
		}

		a.logger.Info("Cache cleanup completed",
			zap.Int64("removed", removed),
			zap.Int("retention_days", days))
		return nil
	},
}

func init() {
	cacheCleanupCmd.Flags().IntVar(&cacheCleanupDays, "days", 0, "retention window in days (defaults to configured value)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	RootCmd.AddCommand(cacheCmd)
}
