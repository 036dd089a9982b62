package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch"
	batchdto "github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/fibretrace"
	"github.com/fekuna/cottontrace-service/internal/integration"
	"github.com/fekuna/cottontrace-service/internal/integration/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockPrefix = "fibretrace:sync:"

type integrationUseCase struct {
	batches batch.UseCase
	client  fibretrace.Client
	locker  integration.Locker
	lockTTL time.Duration
	logger  logger.ZapLogger
	now     func() time.Time

	mu       sync.Mutex
	statuses map[string]dto.BatchSync
}

// NewIntegrationUseCase keeps sync state in memory. locker may be nil, in
// which case only this process is serialized.
func NewIntegrationUseCase(b batch.UseCase, client fibretrace.Client, locker integration.Locker, lockTTL time.Duration, log logger.ZapLogger) integration.UseCase {
	return &integrationUseCase{
		batches:  b,
		client:   client,
		locker:   locker,
		lockTTL:  lockTTL,
		logger:   log,
		now:      time.Now,
		statuses: map[string]dto.BatchSync{},
	}
}

func (uc *integrationUseCase) status(batchID string) dto.BatchSync {
	if s, ok := uc.statuses[batchID]; ok {
		return s
	}
	return dto.BatchSync{BatchID: batchID, Status: dto.SyncNotSynced}
}

func (uc *integrationUseCase) ListStatuses(ctx context.Context) ([]dto.BatchSync, error) {
	batches, err := uc.batches.FilteredBatches(ctx, nil, batchdto.DefaultSort)
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]dto.BatchSync, 0, len(batches))
	for _, b := range batches {
		out = append(out, uc.status(b.ID))
	}
	return out, nil
}

func (uc *integrationUseCase) Status(ctx context.Context, batchID string) (*dto.BatchSync, error) {
	if _, err := uc.batches.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.status(batchID)
	return &s, nil
}

// begin marks the batch syncing and returns the release func. A batch that
// is already syncing, here or on another replica, is rejected.
func (uc *integrationUseCase) begin(ctx context.Context, batchID string) (func(), error) {
	uc.mu.Lock()
	prev := uc.status(batchID)
	if prev.Status == dto.SyncSyncing {
		uc.mu.Unlock()
		return nil, integration.ErrSyncInProgress
	}
	next := prev
	next.Status = dto.SyncSyncing
	uc.statuses[batchID] = next
	uc.mu.Unlock()

	restore := func() {
		uc.mu.Lock()
		uc.statuses[batchID] = prev
		uc.mu.Unlock()
	}
	if uc.locker == nil {
		return func() {}, nil
	}

	key, token := lockPrefix+batchID, uuid.NewString()
	ok, err := uc.locker.AcquireLock(ctx, key, token, uc.lockTTL)
	if err != nil {
		restore()
		return nil, err
	}
	if !ok {
		restore()
		return nil, integration.ErrSyncInProgress
	}
	return func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.logger.Warn("failed to release sync lock", zap.String("batch_id", batchID), zap.Error(err))
		}
	}, nil
}

// finish records the outcome of a push or pull.
func (uc *integrationUseCase) finish(batchID string, resp fibretrace.Response, success, failure string) dto.BatchSync {
	s := dto.BatchSync{BatchID: batchID}
	if resp.Success {
		at := uc.now().UTC()
		s.Status, s.LastSynced, s.Message = dto.SyncSynced, &at, success
	} else {
		s.Status, s.Message = dto.SyncError, failure
		if resp.Message != "" {
			s.Message = resp.Message
		}
	}
	uc.mu.Lock()
	uc.statuses[batchID] = s
	uc.mu.Unlock()
	return s
}

func (uc *integrationUseCase) sync(ctx context.Context, batchID string, call func(context.Context, *model.Batch, bool) fibretrace.Response, success, failure string) (*dto.SyncResult, error) {
	b, err := uc.batches.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	release, err := uc.begin(ctx, batchID)
	if err != nil {
		return nil, err
	}
	defer release()

	uc.mu.Lock()
	synced := uc.statuses[batchID].LastSynced != nil
	uc.mu.Unlock()

	resp := call(ctx, b, synced)
	s := uc.finish(batchID, resp, success, failure)
	if !resp.Success {
		uc.logger.Warn("fibretrace sync failed", zap.String("batch_id", batchID), zap.String("message", s.Message))
	} else {
		uc.logger.Info("fibretrace sync completed", zap.String("batch_id", batchID), zap.String("message", s.Message))
	}
	return &dto.SyncResult{Sync: s, Response: resp}, nil
}

// Push sends the batch to the partner, as an update once it has synced.
func (uc *integrationUseCase) Push(ctx context.Context, batchID string) (*dto.SyncResult, error) {
	return uc.sync(ctx, batchID, func(ctx context.Context, b *model.Batch, synced bool) fibretrace.Response {
		if synced {
			return uc.client.UpdateBatchData(ctx, b.ID, *b)
		}
		return uc.client.PushBatchData(ctx, *b)
	}, "Successfully synced with FibreTrace", "Failed to sync with FibreTrace")
}

func (uc *integrationUseCase) Pull(ctx context.Context, batchID string) (*dto.SyncResult, error) {
	return uc.sync(ctx, batchID, func(ctx context.Context, b *model.Batch, _ bool) fibretrace.Response {
		return uc.client.GetBatchData(ctx, b.ID)
	}, "Successfully pulled data from FibreTrace", "Failed to pull data from FibreTrace")
}

// Verify and FetchIsotope leave the sync state unchanged.
func (uc *integrationUseCase) Verify(ctx context.Context, batchID string) (*dto.SyncResult, error) {
	return uc.lookup(ctx, batchID, uc.client.VerifyBatch)
}

func (uc *integrationUseCase) FetchIsotope(ctx context.Context, batchID string) (*dto.SyncResult, error) {
	return uc.lookup(ctx, batchID, uc.client.GetIsotopeData)
}

func (uc *integrationUseCase) lookup(ctx context.Context, batchID string, call func(context.Context, string) fibretrace.Response) (*dto.SyncResult, error) {
	if _, err := uc.batches.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	resp := call(ctx, batchID)
	if !resp.Success {
		uc.logger.Warn("fibretrace lookup failed", zap.String("batch_id", batchID), zap.String("message", resp.Message))
	}
	uc.mu.Lock()
	s := uc.status(batchID)
	uc.mu.Unlock()
	return &dto.SyncResult{Sync: s, Response: resp}, nil
}

func (uc *integrationUseCase) ListRemote(ctx context.Context, params fibretrace.ListParams) fibretrace.Response {
	return uc.client.GetAllBatches(ctx, params)
}
