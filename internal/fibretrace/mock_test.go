package fibretrace

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestMockClient_CannedPayloads(t *testing.T) {
	m := NewMockClient(0)
	m.Now = fixedNow
	ctx := context.Background()

	bd, err := Decode[BatchData](m.GetBatchData(ctx, "MODULE-1"))
	require.NoError(t, err)
	assert.Equal(t, "MODULE-1", bd.BatchID)
	assert.Equal(t, "California", bd.Location.Region)

	iso, err := Decode[IsotopeAnalysis](m.GetIsotopeData(ctx, "MODULE-1"))
	require.NoError(t, err)
	assert.Equal(t, "ISO-MODULE-1", iso.ID)
	assert.Equal(t, 92, iso.RegionalMatchConfidence)

	v, err := Decode[Verification](m.VerifyBatch(ctx, "MODULE-1"))
	require.NoError(t, err)
	assert.True(t, v.Verified)
	assert.Equal(t, 95, v.Confidence)

	ack, err := Decode[Ack](m.PushBatchData(ctx, model.Batch{ID: "MODULE-1"}))
	require.NoError(t, err)
	assert.Equal(t, fixedNow(), ack.Timestamp)

	list, err := Decode[BatchList](m.GetAllBatches(ctx, ListParams{}))
	require.NoError(t, err)
	assert.Len(t, list.Batches, 3)
	assert.Equal(t, Pagination{Total: 3, Page: 1, Limit: 10}, list.Pagination)
}

func TestMockClient_FailureInjection(t *testing.T) {
	m := NewMockClient(0)
	m.FailBatch("MODULE-2", "upstream rejected batch")

	resp := m.PushIsotopeData(context.Background(), "MODULE-2", model.IsotopeRecord{})
	assert.False(t, resp.Success)
	assert.Equal(t, "upstream rejected batch", resp.Message)
	assert.True(t, m.VerifyBatch(context.Background(), "MODULE-3").Success)
}

func TestMockClient_DelayHonoursContext(t *testing.T) {
	m := NewMockClient(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	resp := m.UpdateBatchData(ctx, "MODULE-1", model.Batch{})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "deadline exceeded")
}
