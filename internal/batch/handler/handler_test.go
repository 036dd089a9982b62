package handler

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/batch/repository"
	"github.com/fekuna/cottontrace-service/internal/batch/usecase"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/store"
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

func serve(t *testing.T, loader store.Loader[model.Batch]) *grpc.ClientConn {
	t.Helper()
	log := logger.NewNop()
	repo := repository.NewMockRepository(11, 20, 0)
	repo.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	if loader == nil {
		loader = store.LoaderFunc[model.Batch](repo.FindAll)
	}
	st := store.New("batches", loader, log, store.WithClone(model.Batch.Clone))
	uc := usecase.NewBatchUseCase(st, repo, nil, 0, export.FileSink{Dir: t.TempDir()}, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterBatchServiceServer(srv, NewBatchHandler(uc, log))
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

func call[Resp any](t *testing.T, conn *grpc.ClientConn, method string, req any) (*Resp, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return grpcjson.Invoke[Resp](ctx, conn, "/"+ServiceName+"/"+method, req)
}

func TestListBatches(t *testing.T) {
	conn := serve(t, nil)
	res, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 20, res.Total)
	assert.Equal(t, 4, res.TotalPages)
	assert.Len(t, res.Items, 5)
	assert.Equal(t, "harvestDate", res.SortBy)
	assert.Equal(t, "desc", res.SortOrder)

	toggled, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{
		SortBy: res.SortBy, SortOrder: res.SortOrder, Toggle: "harvestDate", PageSize: 5, Token: res.Token,
	})
	require.NoError(t, err)
	assert.Equal(t, "asc", toggled.SortOrder)
}

func TestListBatches_UnknownSortField(t *testing.T) {
	conn := serve(t, nil)
	_, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{SortBy: "colour"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{Toggle: "colour"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetBatch(t *testing.T) {
	conn := serve(t, nil)
	list, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	res, err := call[BatchResponse](t, conn, "GetBatch", &GetBatchRequest{ID: list.Items[0].ID})
	require.NoError(t, err)
	assert.Equal(t, list.Items[0].ID, res.Batch.ID)

	_, err = call[BatchResponse](t, conn, "GetBatch", &GetBatchRequest{ID: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = call[BatchResponse](t, conn, "GetBatch", &GetBatchRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSummarizeBatches(t *testing.T) {
	conn := serve(t, nil)
	res, err := call[dto.BatchSummary](t, conn, "SummarizeBatches", &SummarizeBatchesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Total)
	assert.Len(t, res.ForcedLabor, 3)
}

func TestExportBatches(t *testing.T) {
	conn := serve(t, nil)
	res, err := call[dto.ExportResult](t, conn, "ExportBatches", &ExportBatchesRequest{Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Count)
	assert.Contains(t, res.Location, ".csv")

	_, err = call[dto.ExportResult](t, conn, "ExportBatches", &ExportBatchesRequest{Format: "pdf"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRecordCustody_OutOfOrder(t *testing.T) {
	conn := serve(t, nil)
	list, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{PageSize: 1})
	require.NoError(t, err)
	id := list.Items[0].ID

	res, err := call[BatchResponse](t, conn, "RecordCustody", &RecordCustodyRequest{
		BatchID: id,
		Event:   model.CustodyEvent{FromEntity: "Gin", ToEntity: "Carolina Textile Works"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Carolina Textile Works", res.Batch.CurrentCustodian)

	_, err = call[BatchResponse](t, conn, "RecordCustody", &RecordCustodyRequest{
		BatchID: id,
		Event:   model.CustodyEvent{Timestamp: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), ToEntity: "Late"},
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// unexpiredLoader serves the fixture batches with every active
// certification still valid under the wall clock the use case revokes
// against.
func unexpiredLoader() store.Loader[model.Batch] {
	repo := repository.NewMockRepository(11, 20, 0)
	repo.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return store.LoaderFunc[model.Batch](func(ctx context.Context) ([]model.Batch, error) {
		batches, err := repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		for i := range batches {
			for j := range batches[i].Certifications {
				if c := &batches[i].Certifications[j]; c.Status == model.CertificationActive {
					c.ExpiryDate = time.Now().AddDate(5, 0, 0)
				}
			}
		}
		return batches, nil
	})
}

func TestRevokeCertification(t *testing.T) {
	conn := serve(t, unexpiredLoader())
	list, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{})
	require.NoError(t, err)

	var batchID, certID string
	for _, b := range list.Items {
		if len(b.Certifications) > 0 && b.Certifications[0].Status == model.CertificationActive {
			batchID, certID = b.ID, b.Certifications[0].ID
			break
		}
	}
	require.NotEmpty(t, certID)

	_, err = call[BatchResponse](t, conn, "RevokeCertification", &RevokeCertificationRequest{BatchID: batchID, CertificationID: certID})
	require.NoError(t, err)

	_, err = call[BatchResponse](t, conn, "RevokeCertification", &RevokeCertificationRequest{BatchID: batchID, CertificationID: certID})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = call[BatchResponse](t, conn, "RevokeCertification", &RevokeCertificationRequest{BatchID: batchID, CertificationID: "CERT-X"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	conn := serve(t, store.LoaderFunc[model.Batch](func(context.Context) ([]model.Batch, error) {
		return nil, errors.New("timeout")
	}))
	_, err := call[ListBatchesResponse](t, conn, "ListBatches", &ListBatchesRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = call[RefreshResponse](t, conn, "RefreshBatches", &RefreshRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
