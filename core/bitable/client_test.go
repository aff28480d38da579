package bitable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) Config {
	return Config{
		AppID:             "cli_test",
		AppSecret:         "secret",
		AppToken:          "bastoken",
		TableID:           "tbl123",
		BaseURL:           baseURL,
		TimeoutSeconds:    5,
		MaxBatchSize:      500,
		MaxRetries:        1,
		RequestsPerSecond: 1000,
	}
}

// fakeAPI serves the token endpoint plus whatever record handler the test
// installs.
func fakeAPI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int) {
	tokenCalls := new(int)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v3/tenant_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		*tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"code":                0,
			"tenant_access_token": "t-token",
			"expire":              7200,
		})
	})
	if handler != nil {
		mux.HandleFunc("/", handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, tokenCalls
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{AppID: "only-this"}, zap.NewNop())
	assert.Error(t, err)
}

func TestAccessToken_CachedAcrossCalls(t *testing.T) {
	server, tokenCalls := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"items": []any{}},
		})
	})

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.ListFields(context.Background())
	require.NoError(t, err)
	_, err = client.ListFields(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, *tokenCalls)
}

func TestListAllRecords_Paginates(t *testing.T) {
	var pages []string
	server, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		pageToken := r.URL.Query().Get("page_token")
		pages = append(pages, pageToken)

		if pageToken == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{
					"items": []map[string]any{
						{"record_id": "rec_1", "fields": map[string]any{"公司名称": "字节跳动"}},
						{"record_id": "rec_2", "fields": map[string]any{"公司名称": "腾讯"}},
					},
					"page_token": "page2",
					"has_more":   true,
				},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"items": []map[string]any{
					{"record_id": "rec_3", "fields": map[string]any{"公司名称": "美团"}},
				},
				"has_more": false,
			},
		})
	})

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	records, err := client.ListAllRecords(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "rec_3", records[2].RecordID)
	assert.Equal(t, []string{"", "page2"}, pages)
}

func TestBatchCreateRecords(t *testing.T) {
	server, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Records []struct {
				Fields map[string]any `json:"fields"`
			} `json:"records"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		items := make([]map[string]any, 0, len(payload.Records))
		for i, rec := range payload.Records {
			items = append(items, map[string]any{
				"record_id": fmt.Sprintf("rec_%d", i),
				"fields":    rec.Fields,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"records": items},
		})
	})

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	ids, err := client.BatchCreateRecords(context.Background(), []map[string]any{
		{"公司名称": "字节跳动"},
		{"公司名称": "腾讯"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec_0", "rec_1"}, ids)
}

func TestBatchCalls_RejectOversizedBatches(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.MaxBatchSize = 2

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = client.BatchCreateRecords(context.Background(), []map[string]any{{}, {}, {}})
	assert.Error(t, err)

	err = client.BatchUpdateRecords(context.Background(), []RecordUpdate{{}, {}, {}})
	assert.Error(t, err)
}

func TestDoRequest_SurfacesAPIErrors(t *testing.T) {
	server, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 91402,
			"msg":  "NOTEXIST",
		})
	})

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.ListAllRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "91402")
}
