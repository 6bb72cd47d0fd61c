package cart

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	cartsvc "github.com/velmarket/storefront-backend/internal/cart"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/logger"
)

const (
	cartPagePath    = "/cart/"
	flashCookieName = "cart_flash"
	quantityPrefix  = "quantity_"
)

// FormAdd handles the non-JS storefront add-to-cart form.
func FormAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleForm(svc, logg, w, r, "item added to cart", func(owner cartsvc.Owner) (*cartsvc.SummaryDTO, error) {
			productID, err := uuid.Parse(strings.TrimSpace(r.PostFormValue("product_id")))
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
			}
			quantity := parseFormQuantity(r.PostFormValue("quantity"), 1)
			return svc.Add(r.Context(), owner, productID, quantity)
		})
	}
}

// FormUpdate applies the cart page's batch quantity submission. Inputs
// are named quantity_<itemID>; unknown items are skipped, zero removes.
func FormUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleForm(svc, logg, w, r, "cart updated", func(owner cartsvc.Owner) (*cartsvc.SummaryDTO, error) {
			updates := make([]cartsvc.QuantityUpdate, 0, len(r.PostForm))
			for field, values := range r.PostForm {
				if !strings.HasPrefix(field, quantityPrefix) || len(values) == 0 {
					continue
				}
				itemID, err := uuid.Parse(strings.TrimPrefix(field, quantityPrefix))
				if err != nil {
					continue
				}
				updates = append(updates, cartsvc.QuantityUpdate{
					ItemID:   itemID,
					Quantity: parseFormQuantity(values[0], 0),
				})
			}
			return svc.UpdateMany(r.Context(), owner, updates)
		})
	}
}

// FormRemove deletes one line via the per-row remove button.
func FormRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleForm(svc, logg, w, r, "item removed from cart", func(owner cartsvc.Owner) (*cartsvc.SummaryDTO, error) {
			itemID, err := uuid.Parse(strings.TrimSpace(r.PostFormValue("item_id")))
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
			}
			return svc.Remove(r.Context(), owner, itemID)
		})
	}
}

// FormClear empties the cart from the cart page.
func FormClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleForm(svc, logg, w, r, "cart cleared", func(owner cartsvc.Owner) (*cartsvc.SummaryDTO, error) {
			return svc.Clear(r.Context(), owner)
		})
	}
}

// handleForm runs one form mutation and always answers 303 back to the
// cart page, carrying the outcome in a short-lived flash cookie.
func handleForm(svc cartsvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, successMessage string, mutate func(cartsvc.Owner) (*cartsvc.SummaryDTO, error)) {
	if svc == nil {
		http.Error(w, "cart service unavailable", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "invalid form submission")
		return
	}

	owner, err := ownerFromRequest(r)
	if err != nil {
		redirectWithFlash(w, r, flashMessage(err))
		return
	}

	if _, err := mutate(owner); err != nil {
		if logg != nil {
			logg.Error(r.Context(), "cart form mutation failed", err)
		}
		redirectWithFlash(w, r, flashMessage(err))
		return
	}

	redirectWithFlash(w, r, successMessage)
}

func flashMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeOutOfStock:
			if typed.Message() != "" {
				return typed.Message()
			}
		}
		return meta.PublicMessage
	}
	return "something went wrong"
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   30,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, cartPagePath, http.StatusSeeOther)
}

func parseFormQuantity(raw string, fallback int) int {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return quantity
}
