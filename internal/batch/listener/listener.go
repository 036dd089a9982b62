package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch"
	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventCustodyTransferred = "CustodyTransferred"

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type CustodyListener struct {
	consumer MessageReader
	uc       batch.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewCustodyListener(consumer MessageReader, uc batch.UseCase, logger logger.ZapLogger) *CustodyListener {
	return &CustodyListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *CustodyListener) Start(ctx context.Context) {
	l.logger.Info("Starting custody Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping custody Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type CustodyTransferredEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   CustodyPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type CustodyPayload struct {
	BatchID string             `json:"batch_id"`
	Event   model.CustodyEvent `json:"event"`
}

func (l *CustodyListener) processMessage(ctx context.Context, value []byte) {
	var event CustodyTransferredEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != EventCustodyTransferred {
		return
	}

	custody := event.Payload.Event
	if custody.Timestamp.IsZero() {
		custody.Timestamp = event.Timestamp
	}
	l.logger.Info("Processing CustodyTransferred event",
		zap.String("event_id", event.EventID),
		zap.String("batch_id", event.Payload.BatchID),
	)

	_, err := l.uc.RecordCustody(ctx, &dto.RecordCustodyInput{BatchID: event.Payload.BatchID, Event: custody})
	if err != nil {
		l.logger.Error("Failed to apply custody transfer",
			zap.String("event_id", event.EventID),
			zap.String("batch_id", event.Payload.BatchID),
			zap.Error(err),
		)
	}
}
