package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/isotope"
	"github.com/fekuna/cottontrace-service/internal/isotope/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type IsotopeHandler struct {
	uc     isotope.UseCase
	logger logger.ZapLogger
}

var _ IsotopeServiceServer = (*IsotopeHandler)(nil)

func NewIsotopeHandler(uc isotope.UseCase, log logger.ZapLogger) *IsotopeHandler {
	return &IsotopeHandler{uc: uc, logger: log}
}

func (h *IsotopeHandler) fail(msg string, err error) error {
	st := apperr.Status(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func (h *IsotopeHandler) ListIsotopeRecords(ctx context.Context, req *ListIsotopesRequest) (*ListIsotopesResponse, error) {
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
	res, err := h.uc.ListIsotopeRecords(ctx, &dto.ListIsotopesInput{
		Filters: req.Filters,
		Params:  query.ListParams[dto.SortField]{Sort: sort, Toggle: toggle, Page: page, PageSize: req.PageSize, Token: req.Token},
	})
	if err != nil {
		return nil, h.fail("failed to list isotope records", err)
	}
	return &ListIsotopesResponse{
		Page:      res.Page,
		SortBy:    string(res.Sort.Field),
		SortOrder: string(res.Sort.Direction),
		Token:     res.Token,
	}, nil
}

func (h *IsotopeHandler) GetIsotopeRecord(ctx context.Context, req *GetIsotopeRequest) (*dto.IsotopeDetail, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	d, err := h.uc.GetIsotopeRecord(ctx, req.ID)
	if err != nil {
		return nil, h.fail("failed to get isotope record", err)
	}
	return d, nil
}

func (h *IsotopeHandler) SummarizeIsotopes(ctx context.Context, req *SummarizeIsotopesRequest) (*dto.IsotopeSummary, error) {
	s, err := h.uc.SummarizeIsotopes(ctx, &req.Filters)
	if err != nil {
		return nil, h.fail("failed to summarize isotope records", err)
	}
	return s, nil
}

func (h *IsotopeHandler) IsotopeTrend(ctx context.Context, req *TrendRequest) (*TrendResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	points, err := h.uc.Trend(ctx, &req.Filters, req.Limit)
	if err != nil {
		return nil, h.fail("failed to build isotope trend", err)
	}
	return &TrendResponse{Points: points}, nil
}

func (h *IsotopeHandler) ExportIsotopes(ctx context.Context, req *ExportIsotopesRequest) (*dto.ExportResult, error) {
	sort, err := query.ParseSort(req.SortBy, req.SortOrder, dto.ParseSortField, dto.DefaultSort)
	if err != nil {
		return nil, apperr.Status(apperr.Invalid(err))
	}
	format, err := model.ParseReportFormat(req.Format)
	if err != nil {
		return nil, apperr.Status(err)
	}
	res, err := h.uc.ExportIsotopes(ctx, &dto.ExportIsotopesInput{Filters: req.Filters, Sort: sort, Format: format})
	if err != nil {
		return nil, h.fail("failed to export isotope records", err)
	}
	return res, nil
}
