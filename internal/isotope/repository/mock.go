package repository

import (
	"context"
	"time"

	"github.com/fekuna/cottontrace-service/internal/mockdata"
	"github.com/fekuna/cottontrace-service/internal/model"
)

type MockRepository struct {
	Seed  uint64
	Count int
	Delay time.Duration
	Now   func() time.Time
}

func NewMockRepository(seed uint64, count int, delay time.Duration) *MockRepository {
	return &MockRepository{Seed: seed, Count: count, Delay: delay, Now: time.Now}
}

func (r *MockRepository) FindAll(ctx context.Context) ([]model.IsotopeRecord, error) {
	if err := mockdata.Wait(ctx, r.Delay); err != nil {
		return nil, err
	}
	return mockdata.New(r.Seed, r.Now()).IsotopeRecords(r.Count), nil
}
