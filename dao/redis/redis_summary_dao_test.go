package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ns-advisor/db"
)

func TestRedisSummaryDAO_SetAndGet(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisSummaryDAO(mockClient)
	doc := json.RawMessage(`{"summary_id":"abc","start_date":"2024-05-01","segments":[]}`)

	require.NoError(t, dao.SetDaySummary("2024-05-01", doc))

	stored, err := mockClient.Get("day_summary_v1:2024-05-01")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), stored)

	got, err := dao.GetDaySummary("2024-05-01")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(got))
}

func TestRedisSummaryDAO_GetMissing(t *testing.T) {
	dao := NewRedisSummaryDAO(db.NewMockRedisClient(context.Background()))

	got, err := dao.GetDaySummary("2024-05-02")

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrSummaryNotCached))
}

func TestRedisSummaryDAO_RejectsInvalidJSON(t *testing.T) {
	dao := NewRedisSummaryDAO(db.NewMockRedisClient(context.Background()))

	err := dao.SetDaySummary("2024-05-01", json.RawMessage(`{not json`))

	assert.Error(t, err)
}

func TestRedisSummaryDAO_Delete(t *testing.T) {
	dao := NewRedisSummaryDAO(db.NewMockRedisClient(context.Background()))
	require.NoError(t, dao.SetDaySummary("2024-05-01", json.RawMessage(`{}`)))

	require.NoError(t, dao.DeleteDaySummary("2024-05-01"))

	_, err := dao.GetDaySummary("2024-05-01")
	assert.True(t, errors.Is(err, ErrSummaryNotCached))
}
