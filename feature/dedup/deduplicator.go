package dedup

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recruit-sync/feature/record"
)

// Deduplicator suppresses postings already seen, within a batch and across
// runs, backed by the persistent cache table.
type Deduplicator struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewDeduplicator creates a deduplicator and migrates the cache table.
func NewDeduplicator(db *gorm.DB, log *zap.Logger) (*Deduplicator, error) {
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate dedup cache: %w", err)
	}

	return &Deduplicator{
		db:     db,
		logger: log,
		now:    time.Now,
	}, nil
}

// Hash returns the content hash of the record's dedup key.
func (d *Deduplicator) Hash(rec record.Record) string {
	sum := md5.Sum([]byte(rec.DedupKey()))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether the record's hash is already cached.
func (d *Deduplicator) IsDuplicate(ctx context.Context, rec record.Record) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&CacheEntry{}).
		Where("record_hash = ?", d.Hash(rec)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query dedup cache: %w", err)
	}
	return count > 0, nil
}

// Add upserts the record into the cache. A fresh hash creates an entry; a
// known hash bumps last_seen and overwrites remote_id only when a new one is
// supplied.
func (d *Deduplicator) Add(ctx context.Context, rec record.Record, remoteID string) error {
	now := d.now()

	publishDate := ""
	if rec.PublishDate != nil {
		publishDate = rec.PublishDate.Format(record.DateLayout)
	}

	entry := CacheEntry{
		RecordHash:  d.Hash(rec),
		CompanyName: rec.CompanyName,
		Position:    rec.Position,
		PublishDate: publishDate,
		SourceURL:   rec.Source,
		FirstSeen:   now,
		LastSeen:    now,
		RemoteID:    remoteID,
	}

	assignments := map[string]any{"last_seen": now}
	if remoteID != "" {
		assignments["remote_id"] = remoteID
	}

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_hash"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert dedup cache entry: %w", err)
	}
	return nil
}

// FilterBatch returns the records not seen before. Duplicates within the
// batch are suppressed first via an in-memory set, so they never reach the
// store; survivors are then checked against the persistent cache.
func (d *Deduplicator) FilterBatch(ctx context.Context, recs []record.Record) ([]record.Record, error) {
	seen := make(map[string]bool, len(recs))
	unique := make([]record.Record, 0, len(recs))

	for _, rec := range recs {
		hash := d.Hash(rec)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		dup, err := d.IsDuplicate(ctx, rec)
		if err != nil {
			return nil, err
		}
		if dup {
			continue
		}
		unique = append(unique, rec)
	}

	d.logger.Info("Filtered duplicate records",
		zap.Int("incoming", len(recs)),
		zap.Int("unique", len(unique)))

	return unique, nil
}

// Cleanup deletes entries whose first sighting is older than the retention
// window and returns the count removed.
func (d *Deduplicator) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := d.now().AddDate(0, 0, -retentionDays)

	result := d.db.WithContext(ctx).
		Where("first_seen < ?", cutoff).
		Delete(&CacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up dedup cache: %w", result.Error)
	}

	d.logger.Info("Cleaned up dedup cache",
		zap.Int64("removed", result.RowsAffected),
		zap.Int("retention_days", retentionDays))

	return result.RowsAffected, nil
}

// Size returns the number of cached entries.
func (d *Deduplicator) Size(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&CacheEntry{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count dedup cache: %w", err)
	}
	return count, nil
}
