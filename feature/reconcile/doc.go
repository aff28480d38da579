// Package reconcile converges batches of unique postings with the remote
// table: rows matching an incoming record's dedup key are updated, the rest
// are created, in chunks bounded by the remote API's batch limit. Failure is
// all-or-nothing per call; partial remote progress is not reported.
package reconcile
