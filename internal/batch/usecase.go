package batch

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type UseCase interface {
	ListBatches(ctx context.Context, input *dto.ListBatchesInput) (*query.Result[model.Batch, dto.SortField], error)
	GetBatch(ctx context.Context, id string) (*model.Batch, error)
	SummarizeBatches(ctx context.Context, filters *dto.BatchFilters) (*dto.BatchSummary, error)
	// FilteredBatches returns every match, unpaginated, for export and reports.
	FilteredBatches(ctx context.Context, filters *dto.BatchFilters, sort query.SortState[dto.SortField]) ([]model.Batch, error)
	ExportBatches(ctx context.Context, input *dto.ExportBatchesInput) (*dto.ExportResult, error)

	RecordCustody(ctx context.Context, input *dto.RecordCustodyInput) (*model.Batch, error)
	RevokeCertification(ctx context.Context, batchID, certificationID string) (*model.Batch, error)
	Refresh(ctx context.Context) error
}
