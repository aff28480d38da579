// Package server holds configuration for the health check endpoint exposed
// while the pipeline runs in scheduled mode.
package server
