package dashboard

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/dashboard/dto"
)

type UseCase interface {
	Metrics(ctx context.Context) (*dto.Metrics, error)
	// Alerts returns the newest limit alerts; limit <= 0 returns all.
	Alerts(ctx context.Context, limit int) ([]dto.Alert, error)
}
