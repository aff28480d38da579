package cmd

import (
	"context"

	"recruit-sync/feature/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runDemo       bool
	runImportFile string
	runSourceURL  string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pipeline pass over the configured sources",
	Long: `Fetches postings from every configured source, normalizes and cleans
them, drops duplicates and reconciles the remainder with the remote table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		cfg := a.cfg.Pipeline
		if runDemo {
			cfg.Demo = true
		}
		if runImportFile != "" {
			cfg.ImportFile = runImportFile
		}
		if runSourceURL != "" {
			cfg.SourceURL = runSourceURL
		}

		sources := pipeline.Sources(cfg, a.logger)
		if len(sources) == 0 {
			a.logger.Warn("No sources configured, nothing to do")
			return nil
		}

		results, err := a.pipeline.RunAll(context.Background(), sources)
		for _, result := range results {
			a.logger.Info("Run summary",
				zap.String("source", result.Source),
				zap.String("run_id", result.RunID),
				zap.Int("raw", result.Raw),
				zap.Int("cleaned", result.Cleaned),
				zap.Int("unique", result.Unique),
				zap.Int("created", result.Created),
				zap.Int("updated", result.Updated),
				zap.Int("failed", result.Failed))
		}
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDemo, "demo", false, "use generated demo data as a source")
	runCmd.Flags().StringVar(&runImportFile, "import", "", "import postings from a local JSON/CSV/TXT file")
	runCmd.Flags().StringVar(&runSourceURL, "url", "", "scrape postings from a listing page URL")
	RootCmd.AddCommand(runCmd)
}
