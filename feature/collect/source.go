package collect

import "context"

// Source produces loosely-typed field maps for the pipeline. Implementations
// own fetching and site-specific parsing; normalization happens downstream.
type Source interface {
	// Name identifies the source in logs and run summaries.
	Name() string
	// Fetch returns the raw records currently available from the source.
	Fetch(ctx context.Context) ([]map[string]any, error)
}
