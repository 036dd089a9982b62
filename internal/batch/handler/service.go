package handler

import (
	"context"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.BatchService"

type ListBatchesRequest struct {
	Filters   dto.BatchFilters `json:"filters"`
	SortBy    string           `json:"sortBy,omitempty"`
	SortOrder string           `json:"sortOrder,omitempty"`
	Toggle    string           `json:"toggle,omitempty"`
	Page      int              `json:"page,omitempty"`
	PageSize  int              `json:"pageSize,omitempty"`
	Token     string           `json:"token,omitempty"`
}

type ListBatchesResponse struct {
	query.Page[model.Batch]
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Token     string `json:"token"`
}

type GetBatchRequest struct {
	ID string `json:"id"`
}

type BatchResponse struct {
	Batch *model.Batch `json:"batch"`
}

type SummarizeBatchesRequest struct {
	Filters dto.BatchFilters `json:"filters"`
}

type ExportBatchesRequest struct {
	Filters   dto.BatchFilters `json:"filters"`
	SortBy    string           `json:"sortBy,omitempty"`
	SortOrder string           `json:"sortOrder,omitempty"`
	Format    string           `json:"format"`
}

type RecordCustodyRequest struct {
	BatchID string             `json:"batchId"`
	Event   model.CustodyEvent `json:"event"`
}

type RevokeCertificationRequest struct {
	BatchID         string `json:"batchId"`
	CertificationID string `json:"certificationId"`
}

type RefreshRequest struct{}

type RefreshResponse struct {
	State       string    `json:"state"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type BatchServiceServer interface {
	ListBatches(context.Context, *ListBatchesRequest) (*ListBatchesResponse, error)
	GetBatch(context.Context, *GetBatchRequest) (*BatchResponse, error)
	SummarizeBatches(context.Context, *SummarizeBatchesRequest) (*dto.BatchSummary, error)
	ExportBatches(context.Context, *ExportBatchesRequest) (*dto.ExportResult, error)
	RecordCustody(context.Context, *RecordCustodyRequest) (*BatchResponse, error)
	RevokeCertification(context.Context, *RevokeCertificationRequest) (*BatchResponse, error)
	RefreshBatches(context.Context, *RefreshRequest) (*RefreshResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListBatches", BatchServiceServer.ListBatches),
		grpcjson.Unary(ServiceName, "GetBatch", BatchServiceServer.GetBatch),
		grpcjson.Unary(ServiceName, "SummarizeBatches", BatchServiceServer.SummarizeBatches),
		grpcjson.Unary(ServiceName, "ExportBatches", BatchServiceServer.ExportBatches),
		grpcjson.Unary(ServiceName, "RecordCustody", BatchServiceServer.RecordCustody),
		grpcjson.Unary(ServiceName, "RevokeCertification", BatchServiceServer.RevokeCertification),
		grpcjson.Unary(ServiceName, "RefreshBatches", BatchServiceServer.RefreshBatches),
	},
	Metadata: "cottontrace/v1/batch.json",
}

func RegisterBatchServiceServer(s grpc.ServiceRegistrar, srv BatchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
