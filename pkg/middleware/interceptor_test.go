package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/cottontrace.v1.BatchService/ListBatches"}

func TestContextInterceptor_CopiesMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(ActorHeader, "Sarah Johnson", RequestIDHeader, "req-1"))

	var got context.Context
	_, err := ContextInterceptor()(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		got = ctx
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", got.Value(ActorKey))
	assert.Equal(t, "req-1", got.Value(RequestIDKey))
}

func TestContextInterceptor_GeneratesRequestID(t *testing.T) {
	var got context.Context
	_, _ = ContextInterceptor()(context.Background(), nil, info, func(ctx context.Context, _ any) (any, error) {
		got = ctx
		return nil, nil
	})
	assert.Nil(t, got.Value(ActorKey))
	assert.NotEmpty(t, got.Value(RequestIDKey))
}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	_, _ = LoggingInterceptor(log)(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, errors.New("boom")
	})
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "/cottontrace.v1.BatchService/ListBatches", entry.ContextMap()["method"])
	assert.Equal(t, "Unknown", entry.ContextMap()["code"])
}
