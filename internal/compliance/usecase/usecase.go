package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/auth"
	"github.com/fekuna/cottontrace-service/internal/compliance"
	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/cache"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cachePrefix = "compliance:"

type complianceUseCase struct {
	store     *store.Store[model.ComplianceBatch]
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher compliance.Publisher
	sink      export.Sink
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewComplianceUseCase wires the compliance store. cache, publisher and
// sink are optional.
func NewComplianceUseCase(st *store.Store[model.ComplianceBatch], c cache.Cache, cacheTTL time.Duration, pub compliance.Publisher, sink export.Sink, log logger.ZapLogger) compliance.UseCase {
	return &complianceUseCase{
		store:     st,
		cache:     c,
		cacheTTL:  cacheTTL,
		publisher: pub,
		sink:      sink,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *complianceUseCase) load(ctx context.Context) ([]model.ComplianceBatch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	return uc.store.Snapshot(), nil
}

func (uc *complianceUseCase) ListComplianceBatches(ctx context.Context, input *dto.ListComplianceInput) (*query.Result[model.ComplianceBatch, dto.SortField], error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("%slist:%x", cachePrefix, md5.Sum(data))
	if uc.cache != nil {
		var cached query.Result[model.ComplianceBatch, dto.SortField]
		if err := uc.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("compliance list cache read failed", zap.Error(err))
		}
	}

	records, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := query.List(records, input.Filters, predicates(&input.Filters), input.Params)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, res, uc.cacheTTL); err != nil {
			uc.logger.Warn("compliance list cache write failed", zap.Error(err))
		}
	}
	return &res, nil
}

func (uc *complianceUseCase) GetComplianceBatch(ctx context.Context, id string) (*model.ComplianceBatch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	c, err := uc.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (uc *complianceUseCase) FilteredComplianceBatches(ctx context.Context, filters *dto.ComplianceFilters, sort query.SortState[dto.SortField]) ([]model.ComplianceBatch, error) {
	records, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Shape(records, predicates(filters), sort), nil
}

func (uc *complianceUseCase) SummarizeCompliance(ctx context.Context, filters *dto.ComplianceFilters) (*dto.ComplianceSummary, error) {
	records, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	matched := query.Filter(records, predicates(filters)...)

	issues := 0
	for _, c := range matched {
		issues += len(c.PendingIssues)
	}
	return &dto.ComplianceSummary{
		Total: len(matched),
		ActionStatus: query.CountBy(matched, func(c model.ComplianceBatch) string { return string(c.ActionStatus) },
			query.Strings(model.ActionStatuses)),
		CertificationStatus: query.CountBy(matched, func(c model.ComplianceBatch) string { return string(c.CertificationStatus) },
			query.Strings(model.VerificationStatuses)),
		AverageSustainabilityScore: query.MeanOf(matched, func(c model.ComplianceBatch) float64 { return float64(c.SustainabilityScore) }),
		PendingIssues:              issues,
	}, nil
}

func (uc *complianceUseCase) ExportCompliance(ctx context.Context, input *dto.ExportComplianceInput) (*dto.ExportResult, error) {
	if uc.sink == nil {
		return nil, errors.New("export sink not configured")
	}
	records, err := uc.FilteredComplianceBatches(ctx, &input.Filters, input.Sort)
	if err != nil {
		return nil, err
	}
	data, contentType, err := export.Encode(input.Format, records, export.ComplianceColumns)
	if err != nil {
		return nil, err
	}
	loc, err := uc.sink.Put(ctx, fmt.Sprintf("compliance-batches-%s.%s", uuid.NewString(), input.Format), contentType, data)
	if err != nil {
		return nil, err
	}
	return &dto.ExportResult{Location: loc, Count: len(records)}, nil
}

// UpdateStatus records an approve or hold decision by the caller.
func (uc *complianceUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.ComplianceBatch, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: action status %q", model.ErrInvalidStatus, input.Status)
	}
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}

	entry := model.StatusEntry{
		ID:        uuid.NewString(),
		Timestamp: uc.now().UTC(),
		Status:    input.Status,
		UpdatedBy: auth.GetActor(ctx),
		Note:      input.Note,
	}
	updated, err := uc.store.Update(input.ID, func(c *model.ComplianceBatch) error {
		c.SetStatus(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("compliance status updated",
		zap.String("compliance_id", updated.ID),
		zap.String("status", string(entry.Status)),
		zap.String("updated_by", entry.UpdatedBy),
	)
	uc.invalidateCache(ctx)
	uc.publish(ctx, &updated, entry)
	return &updated, nil
}

func (uc *complianceUseCase) publish(ctx context.Context, c *model.ComplianceBatch, entry model.StatusEntry) {
	if uc.publisher == nil {
		return
	}
	event := dto.StatusChangedEvent{
		EventID:   entry.ID,
		EventType: compliance.EventStatusChanged,
		Timestamp: entry.Timestamp,
		Payload: dto.StatusChangedBody{
			ComplianceID: c.ID,
			BatchID:      c.BatchID,
			Status:       entry.Status,
			UpdatedBy:    entry.UpdatedBy,
			Note:         entry.Note,
		},
	}
	if err := uc.publisher.PublishJSON(ctx, c.BatchID, event); err != nil {
		uc.logger.Error("failed to publish compliance event", zap.String("compliance_id", c.ID), zap.Error(err))
	}
}

func (uc *complianceUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, cachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate compliance cache", zap.Error(err))
	}
}

func (uc *complianceUseCase) Refresh(ctx context.Context) error {
	if err := uc.store.Fetch(ctx, true); err != nil {
		return err
	}
	uc.invalidateCache(ctx)
	return nil
}
