package verification

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/verification/dto"
)

type UseCase interface {
	ListRequests(ctx context.Context, input *dto.ListVerificationInput) (*query.Result[model.VerificationRequest, dto.SortField], error)
	GetRequest(ctx context.Context, id string) (*model.VerificationRequest, error)
	SummarizeQueue(ctx context.Context, filters *dto.VerificationFilters) (*dto.QueueSummary, error)
	ExportRequests(ctx context.Context, input *dto.ExportVerificationInput) (*dto.ExportResult, error)
	Refresh(ctx context.Context) error
}
