package cart

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velmarket/storefront-backend/api/middleware"
	cartsvc "github.com/velmarket/storefront-backend/internal/cart"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

// ownerFromRequest resolves the cart identity for this request. An
// authenticated user always wins over the anonymous session cookie.
func ownerFromRequest(r *http.Request) (cartsvc.Owner, error) {
	if r == nil {
		return cartsvc.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing cart identity")
	}

	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return cartsvc.Owner{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
		}
		return cartsvc.OwnerForUser(userID), nil
	}

	if sessionKey := middleware.SessionKeyFromContext(r.Context()); sessionKey != "" {
		return cartsvc.OwnerForSession(sessionKey), nil
	}

	return cartsvc.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing cart identity")
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}
