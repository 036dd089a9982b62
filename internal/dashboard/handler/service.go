package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/dashboard/dto"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.DashboardService"

type GetMetricsRequest struct{}

type ListAlertsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListAlertsResponse struct {
	Alerts []dto.Alert `json:"alerts"`
}

type DashboardServiceServer interface {
	GetMetrics(context.Context, *GetMetricsRequest) (*dto.Metrics, error)
	ListAlerts(context.Context, *ListAlertsRequest) (*ListAlertsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "GetMetrics", DashboardServiceServer.GetMetrics),
		grpcjson.Unary(ServiceName, "ListAlerts", DashboardServiceServer.ListAlerts),
	},
	Metadata: "cottontrace/v1/dashboard.json",
}

func RegisterDashboardServiceServer(s grpc.ServiceRegistrar, srv DashboardServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
