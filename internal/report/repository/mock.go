package repository

import (
	"context"
	"time"

	"github.com/fekuna/cottontrace-service/internal/mockdata"
	"github.com/fekuna/cottontrace-service/internal/model"
)

// MockRepository serves the saved reports every session starts with.
type MockRepository struct {
	Delay time.Duration
}

func NewMockRepository(delay time.Duration) *MockRepository {
	return &MockRepository{Delay: delay}
}

func (r *MockRepository) FindAll(ctx context.Context) ([]model.Report, error) {
	if err := mockdata.Wait(ctx, r.Delay); err != nil {
		return nil, err
	}
	return mockdata.Reports(), nil
}
