package compliance

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.ComplianceBatch, error)
}
