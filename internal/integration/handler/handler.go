package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/fibretrace"
	"github.com/fekuna/cottontrace-service/internal/integration"
	"github.com/fekuna/cottontrace-service/internal/integration/dto"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type IntegrationHandler struct {
	uc     integration.UseCase
	logger logger.ZapLogger
}

var _ IntegrationServiceServer = (*IntegrationHandler)(nil)

func NewIntegrationHandler(uc integration.UseCase, log logger.ZapLogger) *IntegrationHandler {
	return &IntegrationHandler{uc: uc, logger: log}
}

func (h *IntegrationHandler) fail(msg string, err error) error {
	st := apperr.Status(err, integration.ErrSyncInProgress)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func (h *IntegrationHandler) ListSyncStatuses(ctx context.Context, _ *ListSyncStatusesRequest) (*ListSyncStatusesResponse, error) {
	statuses, err := h.uc.ListStatuses(ctx)
	if err != nil {
		return nil, h.fail("failed to list sync statuses", err)
	}
	return &ListSyncStatusesResponse{Statuses: statuses}, nil
}

func (h *IntegrationHandler) GetSyncStatus(ctx context.Context, req *BatchRequest) (*dto.BatchSync, error) {
	if req.BatchID == "" {
		return nil, status.Error(codes.InvalidArgument, "batchId is required")
	}
	s, err := h.uc.Status(ctx, req.BatchID)
	if err != nil {
		return nil, h.fail("failed to get sync status", err)
	}
	return s, nil
}

type syncFunc func(context.Context, string) (*dto.SyncResult, error)

func (h *IntegrationHandler) run(ctx context.Context, req *BatchRequest, call syncFunc, msg string) (*dto.SyncResult, error) {
	if req.BatchID == "" {
		return nil, status.Error(codes.InvalidArgument, "batchId is required")
	}
	res, err := call(ctx, req.BatchID)
	if err != nil {
		return nil, h.fail(msg, err)
	}
	return res, nil
}

func (h *IntegrationHandler) PushBatch(ctx context.Context, req *BatchRequest) (*dto.SyncResult, error) {
	return h.run(ctx, req, h.uc.Push, "failed to push batch")
}

func (h *IntegrationHandler) PullBatch(ctx context.Context, req *BatchRequest) (*dto.SyncResult, error) {
	return h.run(ctx, req, h.uc.Pull, "failed to pull batch")
}

func (h *IntegrationHandler) VerifyBatch(ctx context.Context, req *BatchRequest) (*dto.SyncResult, error) {
	return h.run(ctx, req, h.uc.Verify, "failed to verify batch")
}

func (h *IntegrationHandler) FetchIsotopeData(ctx context.Context, req *BatchRequest) (*dto.SyncResult, error) {
	return h.run(ctx, req, h.uc.FetchIsotope, "failed to fetch isotope data")
}

func (h *IntegrationHandler) ListRemoteBatches(ctx context.Context, req *ListRemoteBatchesRequest) (*fibretrace.Response, error) {
	if req.Params.Page < 0 || req.Params.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "page and limit must not be negative")
	}
	resp := h.uc.ListRemote(ctx, req.Params)
	return &resp, nil
}
