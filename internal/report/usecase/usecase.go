package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/cottontrace-service/internal/auth"
	"github.com/fekuna/cottontrace-service/internal/batch"
	batchdto "github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/report"
	"github.com/fekuna/cottontrace-service/internal/report/dto"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
)

const idPrefix = "REP-"

type reportUseCase struct {
	store   *store.Store[model.Report]
	batches batch.UseCase
	sink    export.Sink
	logger  logger.ZapLogger
	now     func() time.Time

	// mu serializes id allocation with the append that claims it.
	mu sync.Mutex
}

func NewReportUseCase(st *store.Store[model.Report], batches batch.UseCase, sink export.Sink, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		store:   st,
		batches: batches,
		sink:    sink,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *reportUseCase) ListReports(ctx context.Context, filters *dto.ReportFilters) ([]model.Report, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	var preds query.Predicates[model.Report]
	if filters != nil {
		preds.Add(filters.Type != "", query.EqualFold(filters.Type, func(r model.Report) string { return string(r.Type) }))
		preds.Add(filters.Status != "", query.EqualFold(filters.Status, func(r model.Report) string { return string(r.Status) }))
	}
	matched := query.Filter(uc.store.Snapshot(), preds...)
	return query.Sort(matched, func(r model.Report) query.Key { return query.TimeKey(r.CreatedAt) }, query.Desc), nil
}

func (uc *reportUseCase) GetReport(ctx context.Context, id string) (*model.Report, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	r, err := uc.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// nextID returns one past the highest REP-nnn in use.
func nextID(reports []model.Report) string {
	high := 0
	for _, r := range reports {
		n, err := strconv.Atoi(strings.TrimPrefix(r.ID, idPrefix))
		if err == nil && strings.HasPrefix(r.ID, idPrefix) && n > high {
			high = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, high+1)
}

func (uc *reportUseCase) GenerateReport(ctx context.Context, input *dto.GenerateReportInput) (*model.Report, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w %q", report.ErrInvalidType, input.Type)
	}
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	r := model.Report{
		ID:        nextID(uc.store.Snapshot()),
		Name:      input.Name,
		CreatedAt: uc.now().UTC(),
		CreatedBy: auth.GetActor(ctx),
		Type:      input.Type,
		Filters:   input.Filters,
		Format:    input.Format,
		Status:    model.ReportGenerating,
	}
	err := uc.store.Append(r)
	uc.mu.Unlock()
	if err != nil {
		return nil, err
	}
	uc.logger.Info("generating report", zap.String("report_id", r.ID), zap.String("type", string(r.Type)))

	loc, count, renderErr := uc.render(ctx, r)
	done, err := uc.store.Update(r.ID, func(rep *model.Report) error {
		if renderErr != nil {
			rep.Status, rep.Message = model.ReportFailed, renderErr.Error()
			return nil
		}
		rep.Status, rep.URL = model.ReportCompleted, loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if renderErr != nil {
		uc.logger.Warn("report generation failed", zap.String("report_id", r.ID), zap.Error(renderErr))
	} else {
		uc.logger.Info("report generated", zap.String("report_id", r.ID), zap.String("location", loc), zap.Int("count", count))
	}
	return &done, nil
}

func (uc *reportUseCase) render(ctx context.Context, r model.Report) (string, int, error) {
	if uc.sink == nil {
		return "", 0, errors.New("export sink not configured")
	}
	filters := batchdto.FromReportFilter(r.Filters)
	batches, err := uc.batches.FilteredBatches(ctx, &filters, batchdto.DefaultSort)
	if err != nil {
		return "", 0, err
	}
	data, contentType, err := export.Encode(r.Format, batches, export.BatchColumns)
	if err != nil {
		return "", 0, err
	}
	loc, err := uc.sink.Put(ctx, fmt.Sprintf("%s.%s", r.ID, r.Format), contentType, data)
	if err != nil {
		return "", 0, err
	}
	return loc, len(batches), nil
}

func (uc *reportUseCase) Refresh(ctx context.Context) error {
	return uc.store.Fetch(ctx, true)
}
