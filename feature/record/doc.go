// Package record defines the canonical recruitment posting model and the
// shared vocabulary around it: the closed option sets of the remote table,
// the raw-name alias table, the canonical-to-remote field mapping, and the
// value coercion helpers used across the pipeline.
package record
