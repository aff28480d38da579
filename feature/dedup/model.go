package dedup

import "time"

// CacheEntry is one row of the persistent dedup cache. An entry is created
// the first time a hash is seen and only ever removed by age-based cleanup.
type CacheEntry struct {
	ID uint `gorm:"primaryKey"`
	// RecordHash is the content hash of the posting's dedup key.
	RecordHash string `gorm:"column:record_hash;size:32;uniqueIndex:idx_records_record_hash"`
	// CompanyName and Position are stored for manual cache inspection.
	CompanyName string `gorm:"index:idx_records_company_position"`
	Position    string `gorm:"index:idx_records_company_position"`
	// PublishDate is the date component of the dedup key, YYYY-MM-DD or empty.
	PublishDate string
	// SourceURL is the posting URL at first sight.
	SourceURL string
	// FirstSeen is when the hash first entered the cache. Retention cleanup
	// measures age from this field.
	FirstSeen time.Time
	// LastSeen is bumped on every re-sighting.
	LastSeen time.Time
	// RemoteID is the remote table row backing this posting, when known.
	RemoteID string
}

// TableName keeps the historical table name of the cache file.
func (CacheEntry) TableName() string {
	return "records"
}
