package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/isotope"
	"github.com/fekuna/cottontrace-service/internal/isotope/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type isotopeUseCase struct {
	store  *store.Store[model.IsotopeRecord]
	sink   export.Sink
	logger logger.ZapLogger
}

func NewIsotopeUseCase(st *store.Store[model.IsotopeRecord], sink export.Sink, log logger.ZapLogger) isotope.UseCase {
	return &isotopeUseCase{store: st, sink: sink, logger: log}
}

func (uc *isotopeUseCase) filtered(ctx context.Context, filters *dto.IsotopeFilters) ([]model.IsotopeRecord, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	return query.Filter(uc.store.Snapshot(), predicates(filters)...), nil
}

func (uc *isotopeUseCase) ListIsotopeRecords(ctx context.Context, input *dto.ListIsotopesInput) (*query.Result[model.IsotopeRecord, dto.SortField], error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	res, err := query.List(uc.store.Snapshot(), input.Filters, predicates(&input.Filters), input.Params)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (uc *isotopeUseCase) GetIsotopeRecord(ctx context.Context, id string) (*dto.IsotopeDetail, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	r, err := uc.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &dto.IsotopeDetail{Record: r, Match: r.WithinReference()}, nil
}

func isotopeSeries(r model.IsotopeRecord) [4]float64 {
	return [4]float64{r.Isotopes.Carbon, r.Isotopes.Nitrogen, r.Isotopes.Oxygen, r.Isotopes.Hydrogen}
}

func means(v [4]float64) dto.IsotopeMeans {
	return dto.IsotopeMeans{Carbon: v[0], Nitrogen: v[1], Oxygen: v[2], Hydrogen: v[3]}
}

func (uc *isotopeUseCase) SummarizeIsotopes(ctx context.Context, filters *dto.IsotopeFilters) (*dto.IsotopeSummary, error) {
	records, err := uc.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}

	var avg [4]float64
	for i := range avg {
		avg[i] = query.MeanOf(records, func(r model.IsotopeRecord) float64 { return isotopeSeries(r)[i] })
	}
	outside := 0
	for _, r := range records {
		if !r.WithinReference().All() {
			outside++
		}
	}
	confidence := func(r model.IsotopeRecord) float64 { return float64(r.ConfidenceScore) }

	return &dto.IsotopeSummary{
		Total: len(records),
		VerificationStatus: query.CountBy(records, func(r model.IsotopeRecord) string { return string(r.VerificationStatus) },
			query.Strings(model.VerificationStatuses)),
		AverageConfidence:  query.MeanOf(records, confidence),
		Means:              means(avg),
		ConfidenceByRegion: query.GroupBy(records, func(r model.IsotopeRecord) string { return r.Location.Region }, confidence),
		OutOfReference:     outside,
	}, nil
}

func (uc *isotopeUseCase) Trend(ctx context.Context, filters *dto.IsotopeFilters, limit int) ([]dto.TrendPoint, error) {
	records, err := uc.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	buckets := query.MonthlyTrend(records, func(r model.IsotopeRecord) time.Time { return r.TestDate }, isotopeSeries, limit)
	out := make([]dto.TrendPoint, len(buckets))
	for i, b := range buckets {
		out[i] = dto.TrendPoint{Month: b.Month, Label: b.Label, Count: b.Count, Means: means(b.Means)}
	}
	return out, nil
}

func (uc *isotopeUseCase) ExportIsotopes(ctx context.Context, input *dto.ExportIsotopesInput) (*dto.ExportResult, error) {
	if uc.sink == nil {
		return nil, errors.New("export sink not configured")
	}
	records, err := uc.filtered(ctx, &input.Filters)
	if err != nil {
		return nil, err
	}
	records = query.Sort(records, input.Sort.Field.Key, input.Sort.Direction)
	data, contentType, err := export.Encode(input.Format, records, export.IsotopeColumns)
	if err != nil {
		return nil, err
	}
	loc, err := uc.sink.Put(ctx, fmt.Sprintf("isotope-analysis-%s.%s", uuid.NewString(), input.Format), contentType, data)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("exported isotope records", zap.String("location", loc), zap.Int("count", len(records)))
	return &dto.ExportResult{Location: loc, Count: len(records)}, nil
}

func (uc *isotopeUseCase) Refresh(ctx context.Context) error {
	return uc.store.Fetch(ctx, true)
}
