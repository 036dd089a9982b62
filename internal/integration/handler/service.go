package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/fibretrace"
	"github.com/fekuna/cottontrace-service/internal/integration/dto"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.IntegrationService"

type ListSyncStatusesRequest struct{}

type ListSyncStatusesResponse struct {
	Statuses []dto.BatchSync `json:"statuses"`
}

// BatchRequest names the batch every single-batch call acts on.
type BatchRequest struct {
	BatchID string `json:"batchId"`
}

type ListRemoteBatchesRequest struct {
	Params fibretrace.ListParams `json:"params"`
}

type IntegrationServiceServer interface {
	ListSyncStatuses(context.Context, *ListSyncStatusesRequest) (*ListSyncStatusesResponse, error)
	GetSyncStatus(context.Context, *BatchRequest) (*dto.BatchSync, error)
	PushBatch(context.Context, *BatchRequest) (*dto.SyncResult, error)
	PullBatch(context.Context, *BatchRequest) (*dto.SyncResult, error)
	VerifyBatch(context.Context, *BatchRequest) (*dto.SyncResult, error)
	FetchIsotopeData(context.Context, *BatchRequest) (*dto.SyncResult, error)
	ListRemoteBatches(context.Context, *ListRemoteBatchesRequest) (*fibretrace.Response, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IntegrationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListSyncStatuses", IntegrationServiceServer.ListSyncStatuses),
		grpcjson.Unary(ServiceName, "GetSyncStatus", IntegrationServiceServer.GetSyncStatus),
		grpcjson.Unary(ServiceName, "PushBatch", IntegrationServiceServer.PushBatch),
		grpcjson.Unary(ServiceName, "PullBatch", IntegrationServiceServer.PullBatch),
		grpcjson.Unary(ServiceName, "VerifyBatch", IntegrationServiceServer.VerifyBatch),
		grpcjson.Unary(ServiceName, "FetchIsotopeData", IntegrationServiceServer.FetchIsotopeData),
		grpcjson.Unary(ServiceName, "ListRemoteBatches", IntegrationServiceServer.ListRemoteBatches),
	},
	Metadata: "cottontrace/v1/integration.json",
}

func RegisterIntegrationServiceServer(s grpc.ServiceRegistrar, srv IntegrationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
