package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/mockdata"
	"github.com/fekuna/cottontrace-service/internal/model"
)

// BatchSource loads the batches compliance records are derived from.
type BatchSource interface {
	FindAll(ctx context.Context) ([]model.Batch, error)
}

// DerivedRepository builds one compliance record per batch with a
// synthesized status history.
type DerivedRepository struct {
	Batches BatchSource
	Seed    uint64
	Now     func() time.Time
}

func NewDerivedRepository(batches BatchSource, seed uint64) *DerivedRepository {
	return &DerivedRepository{Batches: batches, Seed: seed, Now: time.Now}
}

func (r *DerivedRepository) FindAll(ctx context.Context) ([]model.ComplianceBatch, error) {
	batches, err := r.Batches.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}
	return mockdata.New(r.Seed, r.Now()).ComplianceBatches(batches), nil
}
