package handler

import (
	"context"
	"net"
	"testing"
	"time"

	batchrepo "github.com/fekuna/cottontrace-service/internal/batch/repository"
	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/compliance/repository"
	"github.com/fekuna/cottontrace-service/internal/compliance/usecase"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/fekuna/cottontrace-service/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func serve(t *testing.T) *grpc.ClientConn {
	t.Helper()
	log := logger.NewNop()
	repo := repository.NewDerivedRepository(batchrepo.NewMockRepository(3, 12, 0), 3)
	st := store.New("compliance", store.LoaderFunc[model.ComplianceBatch](repo.FindAll), log, store.WithClone(model.ComplianceBatch.Clone))
	uc := usecase.NewComplianceUseCase(st, nil, 0, nil, nil, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(middleware.ContextInterceptor()))
	RegisterComplianceServiceServer(srv, NewComplianceHandler(uc, log))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func call[Resp any](ctx context.Context, conn *grpc.ClientConn, method string, req any) (*Resp, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return grpcjson.Invoke[Resp](ctx, conn, "/"+ServiceName+"/"+method, req)
}

func TestUpdateStatus_RecordsCaller(t *testing.T) {
	conn := serve(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), middleware.ActorHeader, "Michael Brown")

	list, err := call[ListComplianceResponse](ctx, conn, "ListComplianceBatches", &ListComplianceRequest{PageSize: 3})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, 12, list.Total)
	assert.Equal(t, "processingDate", list.SortBy)

	id := list.Items[0].ID
	res, err := call[ComplianceResponse](ctx, conn, "UpdateStatus", &UpdateStatusRequest{ID: id, Status: "hold", Notes: "Awaiting audit"})
	require.NoError(t, err)
	assert.Equal(t, "Michael Brown", res.Batch.StatusHistory[0].UpdatedBy)
	assert.Equal(t, "Awaiting audit", res.Batch.StatusHistory[0].Note)
	assert.Equal(t, model.ActionHold, res.Batch.ActionStatus)
}

func TestUpdateStatus_Validation(t *testing.T) {
	conn := serve(t)
	ctx := context.Background()

	_, err := call[ComplianceResponse](ctx, conn, "UpdateStatus", &UpdateStatusRequest{Status: "hold"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call[ComplianceResponse](ctx, conn, "UpdateStatus", &UpdateStatusRequest{ID: "comp-1", Status: "maybe"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call[ComplianceResponse](ctx, conn, "UpdateStatus", &UpdateStatusRequest{ID: "comp-none", Status: "approved"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSummarizeAndExport(t *testing.T) {
	conn := serve(t)
	ctx := context.Background()

	s, err := call[RefreshResponse](ctx, conn, "RefreshCompliance", &RefreshRequest{})
	require.NoError(t, err)
	assert.Equal(t, 12, s.Total)

	_, err = call[ListComplianceResponse](ctx, conn, "ListComplianceBatches", &ListComplianceRequest{SortBy: "farm"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call[dto.ExportResult](ctx, conn, "ExportCompliance", &ExportComplianceRequest{Format: "json"})
	assert.Equal(t, codes.Internal, status.Code(err), "no sink configured")
}
