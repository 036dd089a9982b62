package batch

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.Batch, error)
	Save(ctx context.Context, b *model.Batch) error
}
