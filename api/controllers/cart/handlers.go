package cart

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velmarket/storefront-backend/api/responses"
	"github.com/velmarket/storefront-backend/api/validators"
	cartsvc "github.com/velmarket/storefront-backend/internal/cart"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/logger"
)

// Summary returns the full cart for the current identity.
func Summary(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// Add puts a product into the cart, accumulating quantity on repeats.
func Add(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := ownerFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Add(r.Context(), owner, body.ProductID, body.Quantity)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		writeMutation(w, newMutationResponse(summary, "item added to cart"))
	}
}

// UpdateItem sets the quantity of one line. Quantities below one are
// rejected; only the form batch path treats zero as removal.
func UpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := ownerFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.UpdateQuantity(r.Context(), owner, itemID, body.Quantity)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		writeMutation(w, newMutationResponse(summary, "cart updated"))
	}
}

// RemoveItem deletes one line from the cart.
func RemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := ownerFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Remove(r.Context(), owner, itemID)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		writeMutation(w, newMutationResponse(summary, "item removed from cart"))
	}
}

// Clear empties the cart while keeping the cart row itself.
func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := ownerFromRequest(r)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Clear(r.Context(), owner)
		if err != nil {
			writeMutationFailure(r.Context(), logg, w, err)
			return
		}

		writeMutation(w, newMutationResponse(summary, "cart cleared"))
	}
}

func itemIDFromRequest(r *http.Request) (uuid.UUID, error) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}
