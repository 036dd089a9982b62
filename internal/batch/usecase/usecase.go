package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch"
	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/cache"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cachePrefix = "batches:"

type batchUseCase struct {
	store    *store.Store[model.Batch]
	repo     batch.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	sink     export.Sink
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewBatchUseCase wires the batch store. cache and sink may be nil; list
// results are then always computed and exports are refused.
func NewBatchUseCase(st *store.Store[model.Batch], repo batch.Repository, c cache.Cache, cacheTTL time.Duration, sink export.Sink, log logger.ZapLogger) batch.UseCase {
	return &batchUseCase{
		store:    st,
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		sink:     sink,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *batchUseCase) load(ctx context.Context) ([]model.Batch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	return uc.store.Snapshot(), nil
}

func (uc *batchUseCase) ListBatches(ctx context.Context, input *dto.ListBatchesInput) (*query.Result[model.Batch, dto.SortField], error) {
	cacheKey, err := uc.generateCacheKey(input)
	if err == nil && uc.cache != nil {
		var cached query.Result[model.Batch, dto.SortField]
		if err := uc.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("batch list cache read failed", zap.Error(err))
		}
	}

	batches, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := query.List(batches, input.Filters, predicates(&input.Filters), input.Params)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, res, uc.cacheTTL); err != nil {
			uc.logger.Warn("batch list cache write failed", zap.Error(err))
		}
	}
	return &res, nil
}

func (uc *batchUseCase) generateCacheKey(input *dto.ListBatchesInput) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%slist:%x", cachePrefix, md5.Sum(data)), nil
}

func (uc *batchUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, cachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate batch cache", zap.Error(err))
	}
}

func (uc *batchUseCase) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	b, err := uc.store.Find(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (uc *batchUseCase) FilteredBatches(ctx context.Context, filters *dto.BatchFilters, sort query.SortState[dto.SortField]) ([]model.Batch, error) {
	batches, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Shape(batches, predicates(filters), sort), nil
}

func (uc *batchUseCase) SummarizeBatches(ctx context.Context, filters *dto.BatchFilters) (*dto.BatchSummary, error) {
	batches, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	matched := query.Filter(batches, predicates(filters)...)

	var certs []model.Certification
	custody := 0
	for _, b := range matched {
		certs = append(certs, b.Certifications...)
		custody += len(b.CustodyChain)
	}

	score := func(b model.Batch) float64 { return float64(b.SustainabilityScore) }
	return &dto.BatchSummary{
		Total:       len(matched),
		ForcedLabor: query.CountBy(matched, forcedLaborStatus, query.Strings(model.VerificationStatuses)),
		Certifications: query.CountBy(certs, func(c model.Certification) string { return string(c.Type) },
			query.Strings(model.CertificationTypes)),
		AverageSustainabilityScore: query.MeanOf(matched, score),
		ByRegion:                   query.GroupBy(matched, func(b model.Batch) string { return b.Location.Region }, score),
		CustodyEvents:              custody,
	}, nil
}

func (uc *batchUseCase) ExportBatches(ctx context.Context, input *dto.ExportBatchesInput) (*dto.ExportResult, error) {
	if uc.sink == nil {
		return nil, errors.New("export sink not configured")
	}
	batches, err := uc.FilteredBatches(ctx, &input.Filters, input.Sort)
	if err != nil {
		return nil, err
	}
	data, contentType, err := export.Encode(input.Format, batches, export.BatchColumns)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("batches-%s.%s", uuid.NewString(), input.Format)
	loc, err := uc.sink.Put(ctx, name, contentType, data)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("exported batches", zap.String("location", loc), zap.Int("count", len(batches)))
	return &dto.ExportResult{Location: loc, Count: len(batches)}, nil
}

func (uc *batchUseCase) RecordCustody(ctx context.Context, input *dto.RecordCustodyInput) (*model.Batch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	b, err := uc.store.Update(input.BatchID, func(b *model.Batch) error {
		if err := b.AppendCustody(input.Event); err != nil {
			return err
		}
		return uc.save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)
	return &b, nil
}

func (uc *batchUseCase) RevokeCertification(ctx context.Context, batchID, certificationID string) (*model.Batch, error) {
	if err := uc.store.Fetch(ctx, false); err != nil {
		return nil, err
	}
	b, err := uc.store.Update(batchID, func(b *model.Batch) error {
		i := slices.IndexFunc(b.Certifications, func(c model.Certification) bool { return c.ID == certificationID })
		if i < 0 {
			return fmt.Errorf("%s: %w", certificationID, batch.ErrCertificationNotFound)
		}
		if !b.Certifications[i].Revoke(uc.now()) {
			return fmt.Errorf("%s: %w", certificationID, batch.ErrCertificationNotActive)
		}
		return uc.save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)
	return &b, nil
}

// save writes the mutated copy through to the repository. It runs inside
// store.Update, so a failed write leaves the store untouched.
func (uc *batchUseCase) save(ctx context.Context, b *model.Batch) error {
	if err := uc.repo.Save(ctx, b); err != nil {
		uc.logger.Error("failed to persist batch", zap.String("batch_id", b.ID), zap.Error(err))
		return err
	}
	return nil
}

func (uc *batchUseCase) Refresh(ctx context.Context) error {
	if err := uc.store.Fetch(ctx, true); err != nil {
		return err
	}
	uc.invalidateCache(ctx)
	return nil
}
