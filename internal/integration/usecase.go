package integration

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/cottontrace-service/internal/fibretrace"
	"github.com/fekuna/cottontrace-service/internal/integration/dto"
)

var ErrSyncInProgress = errors.New("batch sync already in progress")

// Locker is a cross-replica mutex keyed by batch. *cache.RedisClient
// satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type UseCase interface {
	ListStatuses(ctx context.Context) ([]dto.BatchSync, error)
	Status(ctx context.Context, batchID string) (*dto.BatchSync, error)
	Push(ctx context.Context, batchID string) (*dto.SyncResult, error)
	Pull(ctx context.Context, batchID string) (*dto.SyncResult, error)
	Verify(ctx context.Context, batchID string) (*dto.SyncResult, error)
	FetchIsotope(ctx context.Context, batchID string) (*dto.SyncResult, error)
	ListRemote(ctx context.Context, params fibretrace.ListParams) fibretrace.Response
}
