package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/authz"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/metrics"
)

// enforce turns a denied decision into its AppError and records it.
func enforce(ctx context.Context, decision authz.Decision) error {
	if decision.Allowed {
		return nil
	}

	metrics.AuthzDenied(string(decision.Action), string(decision.Reason))

	middleware.LoggerFromContext(ctx).Warn("Authorization denied",
		slog.String("action", string(decision.Action)),
		slog.String("reason", string(decision.Reason)),
	)

	return decision.Err()
}

// storeError maps sql.ErrNoRows to NOT_FOUND and every other failure through FromStore.
func storeError(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFoundError(notFound).WithError(err)
	}

	return appErrors.FromStore(failed, err)
}
