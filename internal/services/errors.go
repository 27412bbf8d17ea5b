package services

import (
	"errors"

	"unieats/internal/common"
	"unieats/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("unieats/services")

// translateErr maps repository errors onto the domain error kinds.
func translateErr(err error, resource string, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return common.NotFound(resource, id)
	case errors.Is(err, repositories.ErrStaleOrder):
		return common.Conflict("%s %d was modified concurrently, retry the request", resource, id)
	}
	return err
}

// failureReason labels an error for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	}
	return "error"
}
