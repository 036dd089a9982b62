package report

import (
	"context"
	"errors"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/report/dto"
)

var ErrInvalidType = errors.New("unsupported report type")

type UseCase interface {
	// ListReports returns matching reports, newest first.
	ListReports(ctx context.Context, filters *dto.ReportFilters) ([]model.Report, error)
	GetReport(ctx context.Context, id string) (*model.Report, error)
	// GenerateReport records the report and renders it from the batch
	// filters. A rendering failure leaves the report failed and is not
	// returned as an error.
	GenerateReport(ctx context.Context, input *dto.GenerateReportInput) (*model.Report, error)
	Refresh(ctx context.Context) error
}
