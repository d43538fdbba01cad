// Package request holds the pieces every v1 handler needs: caller identity,
// the admission gate, and the mapping from domain errors to HTTP statuses.
package request

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// Identity carries the caller identity header. Embed it in a Huma input to
// require it on the endpoint.
type Identity struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller user UUID"`
}

// ParseUserID validates the identity header.
func (i Identity) ParseUserID() (uuid.UUID, error) {
	userID, err := uuid.FromString(i.UserID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid X-User-ID", err)
	}
	return userID, nil
}

// Gate consumes one token from the operation's per-user bucket, returning a
// 429 when the bucket is empty. The gated operation is never attempted on
// denial. A nil limiter admits everything.
func Gate(limiter *ratelimit.Limiter, operation string, userID uuid.UUID) error {
	if limiter == nil {
		return nil
	}
	if !limiter.TryAcquire(operation + ":" + userID.String()) {
		return huma.NewError(http.StatusTooManyRequests, errs.ErrRateLimited.Error())
	}
	return nil
}

// MapError converts domain errors to Huma errors. Unrecognized errors map to
// a 500 carrying only the fallback message.
func MapError(err error, fallback string) error {
	switch {
	case errs.IsValidationError(err):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errs.IsNotFoundError(err):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errs.IsAuthorizationError(err):
		return huma.NewError(http.StatusForbidden, err.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, fallback, err)
	}
}
