package pipeline

// Config controls pipeline runs and scheduling.
type Config struct {
	// IntervalHours is the period between scheduled runs.
	IntervalHours int `mapstructure:"interval_hours" default:"3"`
	// RetentionDays bounds the age of dedup cache entries; older entries are
	// purged after each scheduled run.
	RetentionDays int `mapstructure:"retention_days" default:"90"`
	// Demo switches the collector to generated sample data.
	Demo bool `mapstructure:"demo" default:"false"`
	// DemoCount is the number of sample records per demo fetch.
	DemoCount int `mapstructure:"demo_count" default:"10"`
	// ImportFile, when set, adds a local file import source.
	ImportFile string `mapstructure:"import_file" default:""`
	// SourceURL, when set, adds a scraped listing page source.
	SourceURL string `mapstructure:"source_url" default:""`
	// RequestsPerSecond throttles the scraper.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"1"`
}
