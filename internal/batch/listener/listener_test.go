package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch"
	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs chan kafka.Message
	errs int
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if r.errs > 0 {
		r.errs--
		return kafka.Message{}, errors.New("broker unreachable")
	}
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type fakeUseCase struct {
	batch.UseCase
	mu     sync.Mutex
	inputs []dto.RecordCustodyInput
	done   chan struct{}
}

func (f *fakeUseCase) RecordCustody(_ context.Context, in *dto.RecordCustodyInput) (*model.Batch, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, *in)
	f.mu.Unlock()
	f.done <- struct{}{}
	return &model.Batch{ID: in.BatchID}, nil
}

func encode(t *testing.T, ev CustodyTransferredEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestCustodyListener_AppliesTransfers(t *testing.T) {
	reader := &fakeReader{msgs: make(chan kafka.Message, 4), errs: 1}
	uc := &fakeUseCase{done: make(chan struct{}, 4)}
	l := NewCustodyListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	sent := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	reader.msgs <- kafka.Message{Value: []byte("not json")}
	reader.msgs <- encode(t, CustodyTransferredEvent{EventType: "Other"})
	reader.msgs <- encode(t, CustodyTransferredEvent{
		EventID:   "evt-1",
		EventType: EventCustodyTransferred,
		Timestamp: sent,
		Payload:   CustodyPayload{BatchID: "23400012345", Event: model.CustodyEvent{ToEntity: "Gulf Coast Spinning Mill"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-uc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("custody event not applied")
	}
	cancel()
	<-stopped

	require.Len(t, uc.inputs, 1)
	assert.Equal(t, "23400012345", uc.inputs[0].BatchID)
	assert.Equal(t, sent, uc.inputs[0].Event.Timestamp)
}
