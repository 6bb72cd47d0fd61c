package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velmarket/storefront-backend/api/middleware"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

// currentUserID pulls the authenticated user identity seeded by the auth
// middleware. Handlers behind Auth can rely on it being present.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
