// Package apperr maps domain errors onto gRPC status codes at the
// handler edge.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidArgument marks request validation failures.
var ErrInvalidArgument = errors.New("invalid argument")

var invalid = []error{
	ErrInvalidArgument,
	model.ErrScoreOutOfRange,
	model.ErrInvalidGrade,
	model.ErrInvalidStatus,
	model.ErrCertificationDates,
	model.ErrInvalidFormat,
}

var precondition = []error{
	model.ErrCustodyOutOfOrder,
}

// Code picks the status code for err. Unknown errors are Internal.
func Code(err error, extraPrecondition ...error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, store.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, store.ErrUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	for _, target := range invalid {
		if errors.Is(err, target) {
			return codes.InvalidArgument
		}
	}
	for _, target := range append(precondition, extraPrecondition...) {
		if errors.Is(err, target) {
			return codes.FailedPrecondition
		}
	}
	return codes.Internal
}

// Status converts err to a gRPC status error. extraPrecondition lists
// package sentinels that should surface as FailedPrecondition.
func Status(err error, extraPrecondition ...error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err, extraPrecondition...), err.Error())
}

// Invalid tags err as a request validation failure.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}
