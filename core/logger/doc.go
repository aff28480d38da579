// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Run Awareness
//
// Every pipeline invocation carries a run id. The WithRun helper attaches the
// run id to the log entry, ensuring that all logs related to a specific run
// can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Pipeline started")
//
//	// Inside a run:
//	l := logger.WithRun(log, runID)
//	l.Error("Sync failed", zap.Error(err))
package logger
