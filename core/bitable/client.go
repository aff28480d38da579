package bitable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// pageSize is the page size used when listing records. The API caps pages at
// 500 rows.
const pageSize = 500

// Client defines the operations the reconciler needs from the remote table.
type Client interface {
	// ListAllRecords fetches every row of the table, following pagination to
	// completion.
	ListAllRecords(ctx context.Context) ([]Record, error)
	// CreateRecord inserts a single row and returns its remote id.
	CreateRecord(ctx context.Context, fields map[string]any) (string, error)
	// BatchCreateRecords inserts up to MaxBatchSize rows in one call and
	// returns their remote ids in input order.
	BatchCreateRecords(ctx context.Context, records []map[string]any) ([]string, error)
	// UpdateRecord overwrites the given fields of an existing row.
	UpdateRecord(ctx context.Context, recordID string, fields map[string]any) error
	// BatchUpdateRecords overwrites fields of up to MaxBatchSize rows.
	BatchUpdateRecords(ctx context.Context, updates []RecordUpdate) error
	// ListFields returns the column definitions of the table.
	ListFields(ctx context.Context) ([]Field, error)
	// TestConnection verifies credentials by listing the table fields.
	TestConnection(ctx context.Context) error
}

// NewClient creates an HTTP client for the remote table API.
func NewClient(cfg Config, log *zap.Logger) (Client, error) {
	if !cfg.IsComplete() {
		return nil, fmt.Errorf("bitable credentials not fully configured (app_id, app_secret, app_token, table_id required)")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  log,
		now:     time.Now,
	}, nil
}

type httpClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	now     func() time.Time

	mu             sync.Mutex
	token          string
	tokenExpiresAt time.Time
}

// envelope is the common response wrapper of the API.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// accessToken returns a cached tenant access token, refreshing it when it is
// within five minutes of expiry.
func (c *httpClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiresAt.Add(-5*time.Minute)) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"app_id":     c.cfg.AppID,
		"app_secret": c.cfg.AppSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/auth/v3/tenant_access_token/internal", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get tenant access token: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.Code != 0 {
		return "", fmt.Errorf("failed to get tenant access token: %s", body.Msg)
	}

	expire := body.Expire
	if expire <= 0 {
		expire = 7200
	}

	c.token = body.TenantAccessToken
	c.tokenExpiresAt = c.now().Add(time.Duration(expire) * time.Second)

	c.logger.Debug("Obtained tenant access token",
		zap.Time("expires_at", c.tokenExpiresAt))

	return c.token, nil
}

// doRequest performs one authenticated API call with throttling and a capped
// exponential backoff on throttled or server-side failures.
func (c *httpClient) doRequest(ctx context.Context, method, path string, params url.Values, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		token, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		// Retry throttled and server-side failures with exponential backoff.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if attempt >= c.cfg.MaxRetries {
				return nil, fmt.Errorf("request to %s failed with status %d after %d retries", path, resp.StatusCode, attempt)
			}
			wait := time.Duration(1<<(attempt+1)) * time.Second
			c.logger.Warn("Remote API throttled, backing off",
				zap.Int("status", resp.StatusCode),
				zap.Duration("wait", wait))
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("request to %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
		}

		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if env.Code != 0 {
			return nil, fmt.Errorf("remote API error %d: %s", env.Code, env.Msg)
		}

		return env.Data, nil
	}
}

func (c *httpClient) recordsPath(suffix string) string {
	return fmt.Sprintf("/bitable/v1/apps/%s/tables/%s/records%s", c.cfg.AppToken, c.cfg.TableID, suffix)
}

func (c *httpClient) ListAllRecords(ctx context.Context) ([]Record, error) {
	var all []Record
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("page_size", fmt.Sprint(pageSize))
		if pageToken != "" {
			params.Set("page_token", pageToken)
		}

		data, err := c.doRequest(ctx, http.MethodGet, c.recordsPath(""), params, nil)
		if err != nil {
			return nil, err
		}

		var page struct {
			Items     []Record `json:"items"`
			PageToken string   `json:"page_token"`
			HasMore   bool     `json:"has_more"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to decode record page: %w", err)
		}

		all = append(all, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			break
		}
		pageToken = page.PageToken

		c.logger.Debug("Fetched record page", zap.Int("total_so_far", len(all)))
	}

	c.logger.Info("Fetched all remote records", zap.Int("count", len(all)))
	return all, nil
}

func (c *httpClient) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	data, err := c.doRequest(ctx, http.MethodPost, c.recordsPath(""), nil, map[string]any{"fields": fields})
	if err != nil {
		return "", err
	}

	var created struct {
		Record Record `json:"record"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("failed to decode created record: %w", err)
	}
	if created.Record.RecordID == "" {
		return "", fmt.Errorf("create returned no record id")
	}

	return created.Record.RecordID, nil
}

func (c *httpClient) BatchCreateRecords(ctx context.Context, records []map[string]any) ([]string, error) {
	if len(records) > c.cfg.MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds max batch size %d", len(records), c.cfg.MaxBatchSize)
	}
	if len(records) == 0 {
		return nil, nil
	}

	wrapped := make([]map[string]any, 0, len(records))
	for _, fields := range records {
		wrapped = append(wrapped, map[string]any{"fields": fields})
	}

	data, err := c.doRequest(ctx, http.MethodPost, c.recordsPath("/batch_create"), nil, map[string]any{"records": wrapped})
	if err != nil {
		return nil, err
	}

	var created struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to decode batch create response: %w", err)
	}

	ids := make([]string, 0, len(created.Records))
	for _, r := range created.Records {
		ids = append(ids, r.RecordID)
	}

	c.logger.Info("Created record batch", zap.Int("count", len(ids)))
	return ids, nil
}

func (c *httpClient) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) error {
	_, err := c.doRequest(ctx, http.MethodPatch, c.recordsPath("/"+recordID), nil, map[string]any{"fields": fields})
	return err
}

func (c *httpClient) BatchUpdateRecords(ctx context.Context, updates []RecordUpdate) error {
	if len(updates) > c.cfg.MaxBatchSize {
		return fmt.Errorf("batch of %d exceeds max batch size %d", len(updates), c.cfg.MaxBatchSize)
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := c.doRequest(ctx, http.MethodPost, c.recordsPath("/batch_update"), nil, map[string]any{"records": updates})
	if err != nil {
		return err
	}

	c.logger.Info("Updated record batch", zap.Int("count", len(updates)))
	return nil
}

func (c *httpClient) ListFields(ctx context.Context) ([]Field, error) {
	path := fmt.Sprintf("/bitable/v1/apps/%s/tables/%s/fields", c.cfg.AppToken, c.cfg.TableID)

	data, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var fields struct {
		Items []Field `json:"items"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode field list: %w", err)
	}

	return fields.Items, nil
}

func (c *httpClient) TestConnection(ctx context.Context) error {
	fields, err := c.ListFields(ctx)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	c.logger.Info("Connection successful", zap.Int("fields", len(fields)))
	return nil
}
