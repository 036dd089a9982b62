package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.ComplianceService"

type ListComplianceRequest struct {
	Filters   dto.ComplianceFilters `json:"filters"`
	SortBy    string                `json:"sortBy,omitempty"`
	SortOrder string                `json:"sortOrder,omitempty"`
	Toggle    string                `json:"toggle,omitempty"`
	Page      int                   `json:"page,omitempty"`
	PageSize  int                   `json:"pageSize,omitempty"`
	Token     string                `json:"token,omitempty"`
}

type ListComplianceResponse struct {
	query.Page[model.ComplianceBatch]
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Token     string `json:"token"`
}

type GetComplianceRequest struct {
	ID string `json:"id"`
}

type ComplianceResponse struct {
	Batch *model.ComplianceBatch `json:"batch"`
}

type SummarizeComplianceRequest struct {
	Filters dto.ComplianceFilters `json:"filters"`
}

type ExportComplianceRequest struct {
	Filters   dto.ComplianceFilters `json:"filters"`
	SortBy    string                `json:"sortBy,omitempty"`
	SortOrder string                `json:"sortOrder,omitempty"`
	Format    string                `json:"format"`
}

type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type RefreshRequest struct{}

type RefreshResponse struct {
	Total int `json:"total"`
}

type ComplianceServiceServer interface {
	ListComplianceBatches(context.Context, *ListComplianceRequest) (*ListComplianceResponse, error)
	GetComplianceBatch(context.Context, *GetComplianceRequest) (*ComplianceResponse, error)
	SummarizeCompliance(context.Context, *SummarizeComplianceRequest) (*dto.ComplianceSummary, error)
	ExportCompliance(context.Context, *ExportComplianceRequest) (*dto.ExportResult, error)
	UpdateStatus(context.Context, *UpdateStatusRequest) (*ComplianceResponse, error)
	RefreshCompliance(context.Context, *RefreshRequest) (*RefreshResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ComplianceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListComplianceBatches", ComplianceServiceServer.ListComplianceBatches),
		grpcjson.Unary(ServiceName, "GetComplianceBatch", ComplianceServiceServer.GetComplianceBatch),
		grpcjson.Unary(ServiceName, "SummarizeCompliance", ComplianceServiceServer.SummarizeCompliance),
		grpcjson.Unary(ServiceName, "ExportCompliance", ComplianceServiceServer.ExportCompliance),
		grpcjson.Unary(ServiceName, "UpdateStatus", ComplianceServiceServer.UpdateStatus),
		grpcjson.Unary(ServiceName, "RefreshCompliance", ComplianceServiceServer.RefreshCompliance),
	},
	Metadata: "cottontrace/v1/compliance.json",
}

func RegisterComplianceServiceServer(s grpc.ServiceRegistrar, srv ComplianceServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
