package compliance

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

const EventStatusChanged = "ComplianceStatusChanged"

type UseCase interface {
	ListComplianceBatches(ctx context.Context, input *dto.ListComplianceInput) (*query.Result[model.ComplianceBatch, dto.SortField], error)
	GetComplianceBatch(ctx context.Context, id string) (*model.ComplianceBatch, error)
	FilteredComplianceBatches(ctx context.Context, filters *dto.ComplianceFilters, sort query.SortState[dto.SortField]) ([]model.ComplianceBatch, error)
	SummarizeCompliance(ctx context.Context, filters *dto.ComplianceFilters) (*dto.ComplianceSummary, error)
	ExportCompliance(ctx context.Context, input *dto.ExportComplianceInput) (*dto.ExportResult, error)
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.ComplianceBatch, error)
	Refresh(ctx context.Context) error
}

// Publisher is satisfied by broker.KafkaProducer.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
