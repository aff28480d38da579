// Package bitable implements the client for the remote tabular store.
//
// The client owns transport concerns end to end: tenant token acquisition and
// caching, request throttling, capped exponential backoff on throttled
// requests, and pagination. Callers see only the table contract — list all
// rows, create and update rows singly or in bounded batches, and inspect the
// table's fields. A batch call larger than the configured maximum is rejected
// here; splitting work into chunks is the reconciler's job.
package bitable
