package auth

import (
	"context"

	"github.com/fekuna/cottontrace-service/pkg/middleware"
	"google.golang.org/grpc/metadata"
)

// SystemActor is recorded when a change has no named caller.
const SystemActor = "System"

// GetActor returns the display name of the caller, set by the context
// interceptor or sent directly as metadata.
func GetActor(ctx context.Context) string {
	if val, ok := ctx.Value(middleware.ActorKey).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(middleware.ActorHeader); len(val) > 0 && val[0] != "" {
			return val[0]
		}
	}
	return SystemActor
}
