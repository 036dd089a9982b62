package mockdata

import (
	"context"
	"time"
)

// Wait simulates a slow source. It returns early with ctx.Err() when ctx
// is done first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
