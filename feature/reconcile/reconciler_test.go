package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-sync/core/bitable"
	"recruit-sync/feature/record"
)

type mockClient struct {
	listAll     func(ctx context.Context) ([]bitable.Record, error)
	create      func(ctx context.Context, fields map[string]any) (string, error)
	batchCreate func(ctx context.Context, records []map[string]any) ([]string, error)
	update      func(ctx context.Context, recordID string, fields map[string]any) error
	batchUpdate func(ctx context.Context, updates []bitable.RecordUpdate) error
}

func (m *mockClient) ListAllRecords(ctx context.Context) ([]bitable.Record, error) {
	if m.listAll == nil {
		return nil, nil
	}
	return m.listAll(ctx)
}

func (m *mockClient) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	if m.create == nil {
		return "", errors.New("unexpected CreateRecord call")
	}
	return m.create(ctx, fields)
}

func (m *mockClient) BatchCreateRecords(ctx context.Context, records []map[string]any) ([]string, error) {
	if m.batchCreate == nil {
		return nil, errors.New("unexpected BatchCreateRecords call")
	}
	return m.batchCreate(ctx, records)
}

func (m *mockClient) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) error {
	if m.update == nil {
		return errors.New("unexpected UpdateRecord call")
	}
	return m.update(ctx, recordID, fields)
}

func (m *mockClient) BatchUpdateRecords(ctx context.Context, updates []bitable.RecordUpdate) error {
	if m.batchUpdate == nil {
		return errors.New("unexpected BatchUpdateRecords call")
	}
	return m.batchUpdate(ctx, updates)
}

func (m *mockClient) ListFields(ctx context.Context) ([]bitable.Field, error) {
	return nil, nil
}

func (m *mockClient) TestConnection(ctx context.Context) error {
	return nil
}

func testRecord(company, position string) record.Record {
	published := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	return record.Record{
		CompanyName: company,
		Position:    position,
		PublishDate: &published,
	}
}

func remoteRow(id, company, position string) bitable.Record {
	return bitable.Record{
		RecordID: id,
		Fields:   record.BitableFields(testRecord(company, position)),
	}
}

func TestReconcile_Partition(t *testing.T) {
	existing := testRecord("字节跳动", "后端开发工程师")

	var updated []bitable.RecordUpdate
	client := &mockClient{
		listAll: func(ctx context.Context) ([]bitable.Record, error) {
			return []bitable.Record{remoteRow("rec_100", "字节跳动", "后端开发工程师")}, nil
		},
		batchCreate: func(ctx context.Context, records []map[string]any) ([]string, error) {
			ids := make([]string, len(records))
			for i := range records {
				ids[i] = fmt.Sprintf("rec_new_%d", i)
			}
			return ids, nil
		},
		batchUpdate: func(ctx context.Context, ups []bitable.RecordUpdate) error {
			updated = append(updated, ups...)
			return nil
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	result, err := r.Reconcile(context.Background(), []record.Record{
		testRecord("腾讯", "产品经理"),
		existing,
		testRecord("美团", "算法工程师"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)

	// The update carries the existing remote row id.
	require.Len(t, updated, 1)
	assert.Equal(t, "rec_100", updated[0].RecordID)
	assert.Equal(t, "rec_100", result.RemoteIDs[existing.DedupKey()])
	assert.Equal(t, "rec_new_0", result.RemoteIDs[testRecord("腾讯", "产品经理").DedupKey()])
}

func TestReconcile_ChunksBoundedByMaxBatch(t *testing.T) {
	var chunkSizes []int
	client := &mockClient{
		batchCreate: func(ctx context.Context, records []map[string]any) ([]string, error) {
			chunkSizes = append(chunkSizes, len(records))
			ids := make([]string, len(records))
			return ids, nil
		},
	}

	r := NewReconciler(client, 2, zap.NewNop())

	var recs []record.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, testRecord(fmt.Sprintf("公司%d", i), "岗位"))
	}

	result, err := r.Reconcile(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Created)
	assert.Equal(t, []int{2, 2, 1}, chunkSizes)
}

func TestReconcile_AllOrNothingOnUpdateFailure(t *testing.T) {
	createCalled := false
	client := &mockClient{
		listAll: func(ctx context.Context) ([]bitable.Record, error) {
			return []bitable.Record{remoteRow("rec_100", "字节跳动", "后端开发工程师")}, nil
		},
		batchCreate: func(ctx context.Context, records []map[string]any) ([]string, error) {
			createCalled = true
			return make([]string, len(records)), nil
		},
		batchUpdate: func(ctx context.Context, ups []bitable.RecordUpdate) error {
			return errors.New("remote unavailable")
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	result, err := r.Reconcile(context.Background(), []record.Record{
		testRecord("腾讯", "产品经理"),
		testRecord("字节跳动", "后端开发工程师"),
	})

	// The create chunk already landed, but the whole batch reports failed.
	require.Error(t, err)
	assert.True(t, createCalled)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Failed)
	assert.Nil(t, result.RemoteIDs)
}

func TestReconcile_ListFailure(t *testing.T) {
	client := &mockClient{
		listAll: func(ctx context.Context) ([]bitable.Record, error) {
			return nil, errors.New("boom")
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	result, err := r.Reconcile(context.Background(), []record.Record{testRecord("腾讯", "产品经理")})

	require.Error(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestReconcile_EmptyBatch(t *testing.T) {
	client := &mockClient{
		listAll: func(ctx context.Context) ([]bitable.Record, error) {
			t.Fatal("remote should not be touched for an empty batch")
			return nil, nil
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	result, err := r.Reconcile(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestAddOne_CreatesWhenAbsent(t *testing.T) {
	client := &mockClient{
		create: func(ctx context.Context, fields map[string]any) (string, error) {
			return "rec_new", nil
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	id, err := r.AddOne(context.Background(), testRecord("腾讯", "产品经理"))
	require.NoError(t, err)
	assert.Equal(t, "rec_new", id)
}

func TestAddOne_UpdatesWhenPresent(t *testing.T) {
	var updatedID string
	client := &mockClient{
		listAll: func(ctx context.Context) ([]bitable.Record, error) {
			return []bitable.Record{remoteRow("rec_100", "腾讯", "产品经理")}, nil
		},
		update: func(ctx context.Context, recordID string, fields map[string]any) error {
			updatedID = recordID
			return nil
		},
	}

	r := NewReconciler(client, 500, zap.NewNop())
	id, err := r.AddOne(context.Background(), testRecord("腾讯", "产品经理"))
	require.NoError(t, err)
	assert.Equal(t, "rec_100", id)
	assert.Equal(t, "rec_100", updatedID)
}
