package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/verification"
	"github.com/fekuna/cottontrace-service/internal/verification/dto"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type VerificationHandler struct {
	uc     verification.UseCase
	logger logger.ZapLogger
}

var _ VerificationServiceServer = (*VerificationHandler)(nil)

func NewVerificationHandler(uc verification.UseCase, log logger.ZapLogger) *VerificationHandler {
	return &VerificationHandler{uc: uc, logger: log}
}

func (h *VerificationHandler) fail(msg string, err error) error {
	st := apperr.Status(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func (h *VerificationHandler) ListRequests(ctx context.Context, req *ListRequestsRequest) (*ListRequestsResponse, error) {
	sort, err := query.ParseSort(req.SortBy, req.SortOrder, dto.ParseSortField, dto.DefaultSort)
	if err != nil {
		return nil, apperr.Status(apperr.Invalid(err))
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
	res, err := h.uc.ListRequests(ctx, &dto.ListVerificationInput{
		Filters: req.Filters,
		Params:  query.ListParams[dto.SortField]{Sort: sort, Toggle: toggle, Page: page, PageSize: req.PageSize, Token: req.Token},
	})
	if err != nil {
		return nil, h.fail("failed to list verification requests", err)
	}
	return &ListRequestsResponse{
		Page:      res.Page,
		SortBy:    string(res.Sort.Field),
		SortOrder: string(res.Sort.Direction),
		Token:     res.Token,
	}, nil
}

func (h *VerificationHandler) GetRequest(ctx context.Context, req *GetRequestRequest) (*RequestResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	v, err := h.uc.GetRequest(ctx, req.ID)
	if err != nil {
		return nil, h.fail("failed to get verification request", err)
	}
	return &RequestResponse{Request: v}, nil
}

func (h *VerificationHandler) SummarizeQueue(ctx context.Context, req *SummarizeQueueRequest) (*dto.QueueSummary, error) {
	s, err := h.uc.SummarizeQueue(ctx, &req.Filters)
	if err != nil {
		return nil, h.fail("failed to summarize verification queue", err)
	}
	return s, nil
}

func (h *VerificationHandler) ExportRequests(ctx context.Context, req *ExportRequestsRequest) (*dto.ExportResult, error) {
	sort, err := query.ParseSort(req.SortBy, req.SortOrder, dto.ParseSortField, dto.DefaultSort)
	if err != nil {
		return nil, apperr.Status(apperr.Invalid(err))
	}
	format, err := model.ParseReportFormat(req.Format)
	if err != nil {
		return nil, apperr.Status(err)
	}
	res, err := h.uc.ExportRequests(ctx, &dto.ExportVerificationInput{Filters: req.Filters, Sort: sort, Format: format})
	if err != nil {
		return nil, h.fail("failed to export verification requests", err)
	}
	return res, nil
}
