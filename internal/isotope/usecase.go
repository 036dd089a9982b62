package isotope

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/isotope/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type UseCase interface {
	ListIsotopeRecords(ctx context.Context, input *dto.ListIsotopesInput) (*query.Result[model.IsotopeRecord, dto.SortField], error)
	GetIsotopeRecord(ctx context.Context, id string) (*dto.IsotopeDetail, error)
	SummarizeIsotopes(ctx context.Context, filters *dto.IsotopeFilters) (*dto.IsotopeSummary, error)
	// Trend buckets the most recent limit matches by test month.
	Trend(ctx context.Context, filters *dto.IsotopeFilters, limit int) ([]dto.TrendPoint, error)
	ExportIsotopes(ctx context.Context, input *dto.ExportIsotopesInput) (*dto.ExportResult, error)
	Refresh(ctx context.Context) error
}
