package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/apperr"
	"github.com/fekuna/cottontrace-service/internal/dashboard"
	"github.com/fekuna/cottontrace-service/internal/dashboard/dto"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger logger.ZapLogger
}

var _ DashboardServiceServer = (*DashboardHandler)(nil)

func NewDashboardHandler(uc dashboard.UseCase, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{uc: uc, logger: log}
}

func (h *DashboardHandler) fail(msg string, err error) error {
	st := apperr.Status(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return st
}

func (h *DashboardHandler) GetMetrics(ctx context.Context, _ *GetMetricsRequest) (*dto.Metrics, error) {
	m, err := h.uc.Metrics(ctx)
	if err != nil {
		return nil, h.fail("failed to build dashboard metrics", err)
	}
	return m, nil
}

func (h *DashboardHandler) ListAlerts(ctx context.Context, req *ListAlertsRequest) (*ListAlertsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	alerts, err := h.uc.Alerts(ctx, req.Limit)
	if err != nil {
		return nil, h.fail("failed to list alerts", err)
	}
	if alerts == nil {
		alerts = []dto.Alert{}
	}
	return &ListAlertsResponse{Alerts: alerts}, nil
}
