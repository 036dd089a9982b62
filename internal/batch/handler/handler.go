package handler

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/batch"
	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type BatchHandler struct {
	uc     batch.UseCase
	logger logger.ZapLogger
	now    func() time.Time
}

var _ BatchServiceServer = (*BatchHandler)(nil)

func NewBatchHandler(uc batch.UseCase, log logger.ZapLogger) *BatchHandler {
	return &BatchHandler{
		uc:     uc,
		logger: log,
		now:    time.Now,
	}
}

func (h *BatchHandler) fail(msg string, err error) error {
	st := apperr.Status(err, batch.ErrCertificationNotActive)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func parseSort(by, order string) (query.SortState[dto.SortField], error) {
	s, err := query.ParseSort(by, order, dto.ParseSortField, dto.DefaultSort)
	return s, apperr.Invalid(err)
}

func (h *BatchHandler) ListBatches(ctx context.Context, req *ListBatchesRequest) (*ListBatchesResponse, error) {
	sort, err := parseSort(req.SortBy, req.SortOrder)
	if err != nil {
		return nil, apperr.Status(err)
	}
	var toggle dto.SortField
	if req.Toggle != "" {
		if toggle, err = dto.ParseSortField(req.Toggle); err != nil {
			return nil, apperr.Status(apperr.Invalid(err))
		}
	}
	page := req.Page
	if page == 0 {
		page = 1
	}

	res, err := h.uc.ListBatches(ctx, &dto.ListBatchesInput{
		Filters: req.Filters,
		Params: query.ListParams[dto.SortField]{
			Sort:     sort,
			Toggle:   toggle,
			Page:     page,
			PageSize: req.PageSize,
			Token:    req.Token,
		},
	})
	if err != nil {
		return nil, h.fail("failed to list batches", err)
	}
	return &ListBatchesResponse{
		Page:      res.Page,
		SortBy:    string(res.Sort.Field),
		SortOrder: string(res.Sort.Direction),
		Token:     res.Token,
	}, nil
}

func (h *BatchHandler) GetBatch(ctx context.Context, req *GetBatchRequest) (*BatchResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	b, err := h.uc.GetBatch(ctx, req.ID)
	if err != nil {
		return nil, h.fail("failed to get batch", err)
	}
	return &BatchResponse{Batch: b}, nil
}

func (h *BatchHandler) SummarizeBatches(ctx context.Context, req *SummarizeBatchesRequest) (*dto.BatchSummary, error) {
	summary, err := h.uc.SummarizeBatches(ctx, &req.Filters)
	if err != nil {
		return nil, h.fail("failed to summarize batches", err)
	}
	return summary, nil
}

func (h *BatchHandler) ExportBatches(ctx context.Context, req *ExportBatchesRequest) (*dto.ExportResult, error) {
	sort, err := parseSort(req.SortBy, req.SortOrder)
	if err != nil {
		return nil, apperr.Status(err)
	}
	format, err := model.ParseReportFormat(req.Format)
	if err != nil {
		return nil, apperr.Status(err)
	}
	res, err := h.uc.ExportBatches(ctx, &dto.ExportBatchesInput{
		Filters: req.Filters,
		Sort:    sort,
		Format:  format,
	})
	if err != nil {
		return nil, h.fail("failed to export batches", err)
	}
	return res, nil
}

func (h *BatchHandler) RecordCustody(ctx context.Context, req *RecordCustodyRequest) (*BatchResponse, error) {
	if req.BatchID == "" {
		return nil, status.Error(codes.InvalidArgument, "batchId is required")
	}
	if req.Event.ToEntity == "" {
		return nil, status.Error(codes.InvalidArgument, "event.toEntity is required")
	}
	if req.Event.Timestamp.IsZero() {
		req.Event.Timestamp = h.now().UTC()
	}
	b, err := h.uc.RecordCustody(ctx, &dto.RecordCustodyInput{BatchID: req.BatchID, Event: req.Event})
	if err != nil {
		return nil, h.fail("failed to record custody", err)
	}
	return &BatchResponse{Batch: b}, nil
}

func (h *BatchHandler) RevokeCertification(ctx context.Context, req *RevokeCertificationRequest) (*BatchResponse, error) {
	if req.BatchID == "" || req.CertificationID == "" {
		return nil, status.Error(codes.InvalidArgument, "batchId and certificationId are required")
	}
	b, err := h.uc.RevokeCertification(ctx, req.BatchID, req.CertificationID)
	if errors.Is(err, batch.ErrCertificationNotFound) {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	if err != nil {
		return nil, h.fail("failed to revoke certification", err)
	}
	return &BatchResponse{Batch: b}, nil
}

func (h *BatchHandler) RefreshBatches(ctx context.Context, _ *RefreshRequest) (*RefreshResponse, error) {
	if err := h.uc.Refresh(ctx); err != nil {
		return nil, h.fail("failed to refresh batches", err)
	}
	return &RefreshResponse{State: "populated", RefreshedAt: h.now().UTC()}, nil
}
