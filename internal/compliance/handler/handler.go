package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/compliance"
	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ComplianceHandler struct {
	uc     compliance.UseCase
	logger logger.ZapLogger
}

var _ ComplianceServiceServer = (*ComplianceHandler)(nil)

func NewComplianceHandler(uc compliance.UseCase, log logger.ZapLogger) *ComplianceHandler {
	return &ComplianceHandler{uc: uc, logger: log}
}

func (h *ComplianceHandler) fail(msg string, err error) error {
	st := apperr.Status(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func parseSort(by, order string) (query.SortState[dto.SortField], error) {
	s, err := query.ParseSort(by, order, dto.ParseSortField, dto.DefaultSort)
	return s, apperr.Invalid(err)
}

func (h *ComplianceHandler) ListComplianceBatches(ctx context.Context, req *ListComplianceRequest) (*ListComplianceResponse, error) {
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

	res, err := h.uc.ListComplianceBatches(ctx, &dto.ListComplianceInput{
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
		return nil, h.fail("failed to list compliance batches", err)
	}
	return &ListComplianceResponse{
		Page:      res.Page,
		SortBy:    string(res.Sort.Field),
		SortOrder: string(res.Sort.Direction),
		Token:     res.Token,
	}, nil
}

func (h *ComplianceHandler) GetComplianceBatch(ctx context.Context, req *GetComplianceRequest) (*ComplianceResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	c, err := h.uc.GetComplianceBatch(ctx, req.ID)
	if err != nil {
		return nil, h.fail("failed to get compliance batch", err)
	}
	return &ComplianceResponse{Batch: c}, nil
}

func (h *ComplianceHandler) SummarizeCompliance(ctx context.Context, req *SummarizeComplianceRequest) (*dto.ComplianceSummary, error) {
	s, err := h.uc.SummarizeCompliance(ctx, &req.Filters)
	if err != nil {
		return nil, h.fail("failed to summarize compliance", err)
	}
	return s, nil
}

func (h *ComplianceHandler) ExportCompliance(ctx context.Context, req *ExportComplianceRequest) (*dto.ExportResult, error) {
	sort, err := parseSort(req.SortBy, req.SortOrder)
	if err != nil {
		return nil, apperr.Status(err)
	}
	format, err := model.ParseReportFormat(req.Format)
	if err != nil {
		return nil, apperr.Status(err)
	}
	res, err := h.uc.ExportCompliance(ctx, &dto.ExportComplianceInput{Filters: req.Filters, Sort: sort, Format: format})
	if err != nil {
		return nil, h.fail("failed to export compliance batches", err)
	}
	return res, nil
}

func (h *ComplianceHandler) UpdateStatus(ctx context.Context, req *UpdateStatusRequest) (*ComplianceResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	c, err := h.uc.UpdateStatus(ctx, &dto.UpdateStatusInput{
		ID:     req.ID,
		Status: model.ActionStatus(req.Status),
		Note:   req.Notes,
	})
	if err != nil {
		return nil, h.fail("failed to update compliance status", err)
	}
	return &ComplianceResponse{Batch: c}, nil
}

func (h *ComplianceHandler) RefreshCompliance(ctx context.Context, _ *RefreshRequest) (*RefreshResponse, error) {
	if err := h.uc.Refresh(ctx); err != nil {
		return nil, h.fail("failed to refresh compliance", err)
	}
	s, err := h.uc.SummarizeCompliance(ctx, nil)
	if err != nil {
		return nil, h.fail("failed to summarize compliance", err)
	}
	return &RefreshResponse{Total: s.Total}, nil
}
