package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/verification/dto"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.VerificationService"

type ListRequestsRequest struct {
	Filters   dto.VerificationFilters `json:"filters"`
	SortBy    string                  `json:"sortBy,omitempty"`
	SortOrder string                  `json:"sortOrder,omitempty"`
	Toggle    string                  `json:"toggle,omitempty"`
	Page      int                     `json:"page,omitempty"`
	PageSize  int                     `json:"pageSize,omitempty"`
	Token     string                  `json:"token,omitempty"`
}

type ListRequestsResponse struct {
	query.Page[model.VerificationRequest]
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Token     string `json:"token"`
}

type GetRequestRequest struct {
	ID string `json:"id"`
}

type RequestResponse struct {
	Request *model.VerificationRequest `json:"request"`
}

type SummarizeQueueRequest struct {
	Filters dto.VerificationFilters `json:"filters"`
}

type ExportRequestsRequest struct {
	Filters   dto.VerificationFilters `json:"filters"`
	SortBy    string                  `json:"sortBy,omitempty"`
	SortOrder string                  `json:"sortOrder,omitempty"`
	Format    string                  `json:"format"`
}

type VerificationServiceServer interface {
	ListRequests(context.Context, *ListRequestsRequest) (*ListRequestsResponse, error)
	GetRequest(context.Context, *GetRequestRequest) (*RequestResponse, error)
	SummarizeQueue(context.Context, *SummarizeQueueRequest) (*dto.QueueSummary, error)
	ExportRequests(context.Context, *ExportRequestsRequest) (*dto.ExportResult, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VerificationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListRequests", VerificationServiceServer.ListRequests),
		grpcjson.Unary(ServiceName, "GetRequest", VerificationServiceServer.GetRequest),
		grpcjson.Unary(ServiceName, "SummarizeQueue", VerificationServiceServer.SummarizeQueue),
		grpcjson.Unary(ServiceName, "ExportRequests", VerificationServiceServer.ExportRequests),
	},
	Metadata: "cottontrace/v1/verification.json",
}

func RegisterVerificationServiceServer(s grpc.ServiceRegistrar, srv VerificationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
