package handler

import (
	"context"
	"net"
	"testing"
	"time"

	batchrepo "github.com/fekuna/cottontrace-service/internal/batch/repository"
	batchusecase "github.com/fekuna/cottontrace-service/internal/batch/usecase"
	compliancerepo "github.com/fekuna/cottontrace-service/internal/compliance/repository"
	complianceusecase "github.com/fekuna/cottontrace-service/internal/compliance/usecase"
	"github.com/fekuna/cottontrace-service/internal/dashboard"
	"github.com/fekuna/cottontrace-service/internal/dashboard/dto"
	"github.com/fekuna/cottontrace-service/internal/dashboard/usecase"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/store"
	verificationrepo "github.com/fekuna/cottontrace-service/internal/verification/repository"
	verificationusecase "github.com/fekuna/cottontrace-service/internal/verification/usecase"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newUseCase() dashboard.UseCase {
	log := logger.NewNop()

	brepo := batchrepo.NewMockRepository(7, 20, 0)
	bst := store.New("batches", store.LoaderFunc[model.Batch](brepo.FindAll), log, store.WithClone(model.Batch.Clone))
	batches := batchusecase.NewBatchUseCase(bst, brepo, nil, 0, nil, log)

	crepo := compliancerepo.NewDerivedRepository(brepo, 7)
	cst := store.New("compliance", store.LoaderFunc[model.ComplianceBatch](crepo.FindAll), log, store.WithClone(model.ComplianceBatch.Clone))
	comp := complianceusecase.NewComplianceUseCase(cst, nil, 0, nil, nil, log)

	vrepo := verificationrepo.NewMockRepository(0)
	vst := store.New("verification", store.LoaderFunc[model.VerificationRequest](vrepo.FindAll), log)
	verif := verificationusecase.NewVerificationUseCase(vst, nil, log)

	return usecase.NewDashboardUseCase(batches, comp, verif, log)
}

func serve(t *testing.T, uc dashboard.UseCase) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterDashboardServiceServer(srv, NewDashboardHandler(uc, logger.NewNop()))
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

func call[Resp any](conn *grpc.ClientConn, method string, req any) (*Resp, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return grpcjson.Invoke[Resp](ctx, conn, "/"+ServiceName+"/"+method, req)
}

func TestDashboardService(t *testing.T) {
	conn := serve(t, newUseCase())

	m, err := call[dto.Metrics](conn, "GetMetrics", &GetMetricsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, m.TotalBatches)
	assert.Equal(t, m.TotalBatches, m.CompliantBatches+m.PendingVerification+m.NonCompliantBatches)
	assert.LessOrEqual(t, len(m.TopSuppliers), 5)
	assert.Len(t, m.RecentBatches, 5)
	assert.LessOrEqual(t, len(m.RecentAlerts), 5)
	for i := 1; i < len(m.TopSuppliers); i++ {
		assert.GreaterOrEqual(t, m.TopSuppliers[i-1].Score, m.TopSuppliers[i].Score)
	}

	all, err := call[ListAlertsResponse](conn, "ListAlerts", &ListAlertsRequest{})
	require.NoError(t, err)
	for i := 1; i < len(all.Alerts); i++ {
		assert.False(t, all.Alerts[i].Timestamp.After(all.Alerts[i-1].Timestamp))
	}

	_, err = call[ListAlertsResponse](conn, "ListAlerts", &ListAlertsRequest{Limit: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

type downUseCase struct{ dashboard.UseCase }

func (downUseCase) Metrics(context.Context) (*dto.Metrics, error) {
	return nil, store.ErrUnavailable
}

func TestGetMetrics_Unavailable(t *testing.T) {
	conn := serve(t, downUseCase{})

	_, err := call[dto.Metrics](conn, "GetMetrics", &GetMetricsRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
