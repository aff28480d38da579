package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"recruit-sync/core/bitable"
	"recruit-sync/feature/collect"
	"recruit-sync/feature/dedup"
	"recruit-sync/feature/reconcile"
)

type stubSource struct {
	name    string
	records []map[string]any
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	return s.records, s.err
}

type stubClient struct {
	rows    []bitable.Record
	nextID  int
	listErr error
}

func (c *stubClient) ListAllRecords(ctx context.Context) ([]bitable.Record, error) {
	return c.rows, c.listErr
}

func (c *stubClient) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	ids, err := c.BatchCreateRecords(ctx, []map[string]any{fields})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (c *stubClient) BatchCreateRecords(ctx context.Context, records []map[string]any) ([]string, error) {
	ids := make([]string, 0, len(records))
	for _, fields := range records {
		c.nextID++
		id := fmt.Sprintf("rec_%03d", c.nextID)
		c.rows = append(c.rows, bitable.Record{RecordID: id, Fields: fields})
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *stubClient) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) error {
	return nil
}

func (c *stubClient) BatchUpdateRecords(ctx context.Context, updates []bitable.RecordUpdate) error {
	return nil
}

func (c *stubClient) ListFields(ctx context.Context) ([]bitable.Field, error) { return nil, nil }

func (c *stubClient) TestConnection(ctx context.Context) error { return nil }

func setupPipeline(t *testing.T, client bitable.Client) (*Pipeline, *dedup.Deduplicator) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	d, err := dedup.NewDeduplicator(db, zap.NewNop())
	require.NoError(t, err)

	r := reconcile.NewReconciler(client, 500, zap.NewNop())
	return New(d, r, zap.NewNop()), d
}

func TestRun_EndToEnd(t *testing.T) {
	client := &stubClient{}
	p, d := setupPipeline(t, client)

	source := &stubSource{
		name: "test",
		records: []map[string]any{
			{"公司": "字节跳动", "岗位": "后端开发工程师", "发布日期": "2025-03-01", "工作城市": "北京,上海"},
			// Same posting again, different casing of keys.
			{"company": "字节跳动", "title": "后端开发工程师", "date": "2025-03-01"},
			// Invalid: no position.
			{"公司": "腾讯"},
			{"公司": "美团", "岗位": "算法工程师", "发布日期": "2025-03-02"},
		},
	}

	result, err := p.Run(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, "test", result.Source)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.Raw)
	assert.Equal(t, 4, result.Normalized)
	assert.Equal(t, 3, result.Cleaned)
	assert.Equal(t, 2, result.Unique)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Failed)

	// Both synced postings are now cached with their remote ids.
	size, err := d.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestRun_SecondRunSeesDuplicates(t *testing.T) {
	client := &stubClient{}
	p, _ := setupPipeline(t, client)

	source := &stubSource{
		name: "test",
		records: []map[string]any{
			{"公司": "字节跳动", "岗位": "后端开发工程师", "发布日期": "2025-03-01"},
		},
	}

	first, err := p.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := p.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Unique)
	assert.Equal(t, 0, second.Created)
}

func TestRun_FetchFailure(t *testing.T) {
	p, _ := setupPipeline(t, &stubClient{})

	source := &stubSource{name: "broken", err: errors.New("site unreachable")}
	result, err := p.Run(context.Background(), source)

	require.Error(t, err)
	assert.Equal(t, 0, result.Raw)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestRunAll_ContinuesPastFailures(t *testing.T) {
	p, _ := setupPipeline(t, &stubClient{})

	sources := []collect.Source{
		&stubSource{name: "broken", err: errors.New("boom")},
		&stubSource{name: "ok", records: []map[string]any{
			{"公司": "京东", "岗位": "运营", "发布日期": "2025-03-03"},
		}},
	}

	results, err := p.RunAll(context.Background(), sources)

	// The failing source does not stop the healthy one; its error is still
	// reported.
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Raw)
	assert.Equal(t, 1, results[1].Created)
}

func TestSources_Assembly(t *testing.T) {
	log := zap.NewNop()

	assert.Empty(t, Sources(Config{}, log))

	sources := Sources(Config{Demo: true, DemoCount: 5, ImportFile: "jobs.csv", SourceURL: "https://example.com/jobs"}, log)
	require.Len(t, sources, 3)
	assert.Equal(t, "demo", sources[0].Name())
	assert.Equal(t, "file:jobs.csv", sources[1].Name())
	assert.Equal(t, "web", sources[2].Name())
}
