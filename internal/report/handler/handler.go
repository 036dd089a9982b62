package handler

import (
	"context"
	"strings"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/report"
	"github.com/fekuna/cottontrace-service/internal/report/dto"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

var _ ReportServiceServer = (*ReportHandler)(nil)

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{uc: uc, logger: log}
}

func (h *ReportHandler) fail(msg string, err error) error {
	st := apperr.Status(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func (h *ReportHandler) ListReports(ctx context.Context, req *ListReportsRequest) (*ListReportsResponse, error) {
	reports, err := h.uc.ListReports(ctx, &req.Filters)
	if err != nil {
		return nil, h.fail("failed to list reports", err)
	}
	return &ListReportsResponse{Reports: reports}, nil
}

func (h *ReportHandler) GetReport(ctx context.Context, req *GetReportRequest) (*ReportResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	r, err := h.uc.GetReport(ctx, req.ID)
	if err != nil {
		return nil, h.fail("failed to get report", err)
	}
	return &ReportResponse{Report: r}, nil
}

func (h *ReportHandler) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*ReportResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	format, err := model.ParseReportFormat(req.Format)
	if err != nil {
		return nil, apperr.Status(err)
	}
	typ := model.ReportType(strings.ToLower(req.Type))
	if !typ.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported report type %q", req.Type)
	}
	r, err := h.uc.GenerateReport(ctx, &dto.GenerateReportInput{
		Name:    strings.TrimSpace(req.Name),
		Type:    typ,
		Format:  format,
		Filters: req.Filters,
	})
	if err != nil {
		return nil, h.fail("failed to generate report", err)
	}
	return &ReportResponse{Report: r}, nil
}
