package repository

import (
	"context"
	"time"

	"github.com/fekuna/cottontrace-service/internal/mockdata"
	"github.com/fekuna/cottontrace-service/internal/model"
)

// MockRepository serves the fixed audit queue with time in queue
// computed at load time.
type MockRepository struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewMockRepository(delay time.Duration) *MockRepository {
	return &MockRepository{Delay: delay, Now: time.Now}
}

func (r *MockRepository) FindAll(ctx context.Context) ([]model.VerificationRequest, error) {
	if err := mockdata.Wait(ctx, r.Delay); err != nil {
		return nil, err
	}
	return mockdata.VerificationQueue(r.Now()), nil
}
