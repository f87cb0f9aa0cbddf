package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/api/middleware"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
)

// currentUserID pulls the authenticated user out of the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// accessIDFromRequest returns the JWT session id seeded by the auth middleware.
func accessIDFromRequest(r *http.Request) string {
	return middleware.AccessIDFromContext(r.Context())
}
