// Package pipeline orchestrates one end-to-end pass per source: collect raw
// field maps, normalize, clean, suppress duplicates, reconcile against the
// remote table, and feed the resulting remote ids back into the dedup cache.
package pipeline
