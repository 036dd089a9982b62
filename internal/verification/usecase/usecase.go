package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/internal/verification"
	"github.com/fekuna/cottontrace-service/internal/verification/dto"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type verificationUseCase struct {
	store  *store.Store[model.VerificationRequest]
	sink   export.Sink
	logger logger.ZapLogger
}

func NewVerificationUseCase(st *store.Store[model.VerificationRequest], sink export.Sink, log logger.ZapLogger) verification.UseCase {
	return &verificationUseCase{store: st, sink: sink, logger: log}
}

func predicates(f *dto.VerificationFilters) query.Predicates[model.VerificationRequest] {
	var ps query.Predicates[model.VerificationRequest]
	if f == nil {
		return ps
	}
	ps.Add(f.Search != "", query.ContainsFold(f.Search, func(v model.VerificationRequest) []string {
		return []string{v.CompanyName, v.ID, v.DocumentType}
	}))
	ps.Add(f.Status != "", query.EqualFold(f.Status, func(v model.VerificationRequest) string { return string(v.Status) }))
	ps.Add(f.Priority != "", query.EqualFold(f.Priority, func(v model.VerificationRequest) string { return string(v.Priority) }))
	return ps
}

func (uc *verificationUseCase) filtered(ctx context.Context, filters *dto.VerificationFilters) ([]model.VerificationRequest, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	return query.Filter(uc.store.Snapshot(), predicates(filters)...), nil
}

func (uc *verificationUseCase) ListRequests(ctx context.Context, input *dto.ListVerificationInput) (*query.Result[model.VerificationRequest, dto.SortField], error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	res, err := query.List(uc.store.Snapshot(), input.Filters, predicates(&input.Filters), input.Params)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (uc *verificationUseCase) GetRequest(ctx context.Context, id string) (*model.VerificationRequest, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	v, err := uc.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (uc *verificationUseCase) SummarizeQueue(ctx context.Context, filters *dto.VerificationFilters) (*dto.QueueSummary, error) {
	requests, err := uc.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	days := func(v model.VerificationRequest) float64 { return float64(v.TimeInQueue) }
	return &dto.QueueSummary{
		Total: len(requests),
		ByStatus: query.CountBy(requests, func(v model.VerificationRequest) string { return string(v.Status) },
			query.Strings(model.RequestStatuses)),
		ByPriority: query.CountBy(requests, func(v model.VerificationRequest) string { return string(v.Priority) },
			query.Strings(model.Priorities)),
		AverageTimeInQueue: query.MeanOf(requests, days),
		ByAuditor:          query.GroupBy(requests, func(v model.VerificationRequest) string { return v.AssignedAuditor }, days),
	}, nil
}

func (uc *verificationUseCase) ExportRequests(ctx context.Context, input *dto.ExportVerificationInput) (*dto.ExportResult, error) {
	if uc.sink == nil {
		return nil, errors.New("export sink not configured")
	}
	requests, err := uc.filtered(ctx, &input.Filters)
	if err != nil {
		return nil, err
	}
	requests = query.Sort(requests, input.Sort.Field.Key, input.Sort.Direction)
	data, contentType, err := export.Encode(input.Format, requests, export.VerificationColumns)
	if err != nil {
		return nil, err
	}
	loc, err := uc.sink.Put(ctx, fmt.Sprintf("verification-queue-%s.%s", uuid.NewString(), input.Format), contentType, data)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("exported verification queue", zap.String("location", loc), zap.Int("count", len(requests)))
	return &dto.ExportResult{Location: loc, Count: len(requests)}, nil
}

func (uc *verificationUseCase) Refresh(ctx context.Context) error {
	return uc.store.Fetch(ctx, true)
}
