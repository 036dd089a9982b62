package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/report/dto"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.ReportService"

type ListReportsRequest struct {
	Filters dto.ReportFilters `json:"filters"`
}

type ListReportsResponse struct {
	Reports []model.Report `json:"reports"`
}

type GetReportRequest struct {
	ID string `json:"id"`
}

type GenerateReportRequest struct {
	Name    string             `json:"name"`
	Type    string             `json:"type"`
	Format  string             `json:"format"`
	Filters model.ReportFilter `json:"filters"`
}

type ReportResponse struct {
	Report *model.Report `json:"report"`
}

type ReportServiceServer interface {
	ListReports(context.Context, *ListReportsRequest) (*ListReportsResponse, error)
	GetReport(context.Context, *GetReportRequest) (*ReportResponse, error)
	GenerateReport(context.Context, *GenerateReportRequest) (*ReportResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListReports", ReportServiceServer.ListReports),
		grpcjson.Unary(ServiceName, "GetReport", ReportServiceServer.GetReport),
		grpcjson.Unary(ServiceName, "GenerateReport", ReportServiceServer.GenerateReport),
	},
	Metadata: "cottontrace/v1/report.json",
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
