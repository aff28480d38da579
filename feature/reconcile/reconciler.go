package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recruit-sync/core/bitable"
	"recruit-sync/feature/record"
)

// Result reports the outcome of one reconciliation call. On failure the
// whole input batch counts as failed, regardless of how far the call got.
type Result struct {
	// Created is the number of records inserted into the remote table.
	Created int
	// Updated is the number of records that matched an existing remote row.
	Updated int
	// Failed is the number of records not reconciled. Either zero or the
	// whole batch.
	Failed int
	// RemoteIDs maps each synced record's dedup key to its remote row id, so
	// the caller can register the ids with the dedup cache.
	RemoteIDs map[string]string
}

// Reconciler diffs batches of unique records against the remote table and
// issues the minimal create and update calls to converge.
type Reconciler struct {
	client   bitable.Client
	logger   *zap.Logger
	maxBatch int
}

// NewReconciler creates a reconciler. maxBatch bounds the chunk size of
// remote batch calls.
func NewReconciler(client bitable.Client, maxBatch int, log *zap.Logger) *Reconciler {
	if maxBatch <= 0 {
		maxBatch = 500
	}
	return &Reconciler{
		client:   client,
		logger:   log,
		maxBatch: maxBatch,
	}
}

// Reconcile syncs a batch of records against the remote table. Records whose
// dedup key matches an existing remote row are updated in place; the rest are
// created. Any remote failure aborts the call and the entire batch is
// reported as failed, even when earlier chunks already landed.
func (r *Reconciler) Reconcile(ctx context.Context, recs []record.Record) (Result, error) {
	if len(recs) == 0 {
		return Result{}, nil
	}

	existing, err := r.existingByKey(ctx)
	if err != nil {
		return Result{Failed: len(recs)}, err
	}

	var toCreate []record.Record
	var toUpdate []record.Record
	for _, rec := range recs {
		if _, found := existing[rec.DedupKey()]; found {
			toUpdate = append(toUpdate, rec)
		} else {
			toCreate = append(toCreate, rec)
		}
	}

	r.logger.Info("Partitioned batch for reconciliation",
		zap.Int("create", len(toCreate)),
		zap.Int("update", len(toUpdate)))

	remoteIDs := make(map[string]string, len(recs))

	for _, chunk := range chunkRecords(toCreate, r.maxBatch) {
		fields := make([]map[string]any, 0, len(chunk))
		for _, rec := range chunk {
			fields = append(fields, record.BitableFields(rec))
		}

		ids, err := r.client.BatchCreateRecords(ctx, fields)
		if err != nil {
			return Result{Failed: len(recs)}, fmt.Errorf("batch create failed: %w", err)
		}
		for i, rec := range chunk {
			if i < len(ids) {
				remoteIDs[rec.DedupKey()] = ids[i]
			}
		}
	}

	for _, chunk := range chunkRecords(toUpdate, r.maxBatch) {
		updates := make([]bitable.RecordUpdate, 0, len(chunk))
		for _, rec := range chunk {
			key := rec.DedupKey()
			updates = append(updates, bitable.RecordUpdate{
				RecordID: existing[key],
				Fields:   record.BitableFields(rec),
			})
			remoteIDs[key] = existing[key]
		}

		if err := r.client.BatchUpdateRecords(ctx, updates); err != nil {
			return Result{Failed: len(recs)}, fmt.Errorf("batch update failed: %w", err)
		}
	}

	result := Result{
		Created:   len(toCreate),
		Updated:   len(toUpdate),
		RemoteIDs: remoteIDs,
	}

	r.logger.Info("Reconciliation completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))

	return result, nil
}

// AddOne syncs a single record with upsert semantics: an existing remote row
// with the same dedup key is updated, otherwise a row is created. Returns the
// remote row id.
func (r *Reconciler) AddOne(ctx context.Context, rec record.Record) (string, error) {
	existing, err := r.existingByKey(ctx)
	if err != nil {
		return "", err
	}

	fields := record.BitableFields(rec)

	if id, found := existing[rec.DedupKey()]; found {
		if err := r.client.UpdateRecord(ctx, id, fields); err != nil {
			return "", fmt.Errorf("update failed: %w", err)
		}
		return id, nil
	}

	id, err := r.client.CreateRecord(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("create failed: %w", err)
	}
	return id, nil
}

// existingByKey fetches the full remote table and indexes row ids by the
// dedup key projected from each row's fields.
func (r *Reconciler) existingByKey(ctx context.Context) (map[string]string, error) {
	rows, err := r.client.ListAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote records: %w", err)
	}

	existing := make(map[string]string, len(rows))
	for _, row := range rows {
		existing[record.ProjectDedupKey(row.Fields)] = row.RecordID
	}
	return existing, nil
}

// chunkRecords splits a slice into chunks of at most size records. A record
// is never split across chunks.
func chunkRecords(recs []record.Record, size int) [][]record.Record {
	var chunks [][]record.Record
	for start := 0; start < len(recs); start += size {
		end := start + size
		if end > len(recs) {
			end = len(recs)
		}
		chunks = append(chunks, recs[start:end])
	}
	return chunks
}
