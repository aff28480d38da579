package bitable

// Config holds configuration for the remote table API client.
type Config struct {
	// AppID is the application ID used to obtain tenant access tokens.
	AppID string `mapstructure:"app_id" default:""`
	// AppSecret is the application secret paired with AppID.
	AppSecret string `mapstructure:"app_secret" default:""`
	// AppToken identifies the base (document) holding the table.
	AppToken string `mapstructure:"app_token" default:""`
	// TableID identifies the table inside the base.
	TableID string `mapstructure:"table_id" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://open.feishu.cn/open-apis"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxBatchSize is the record limit per batch create/update call.
	MaxBatchSize int `mapstructure:"max_batch_size" default:"500"`
	// MaxRetries is the retry budget for throttled or failing requests.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RequestsPerSecond throttles outgoing API calls.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
}

// IsComplete reports whether all credentials required to reach the remote
// table are configured.
func (c Config) IsComplete() bool {
	return c.AppID != "" && c.AppSecret != "" && c.AppToken != "" && c.TableID != ""
}
