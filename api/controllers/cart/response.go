package cart

import (
	"context"
	"encoding/json"
	"net/http"

	cartsvc "github.com/velmarket/storefront-backend/internal/cart"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/logger"
)

// mutationResponse is the flat payload the storefront widget polls after
// every cart mutation. It always travels with HTTP 200; success carries
// the outcome so the widget can render a toast without special-casing
// status codes.
type mutationResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	CartTotalItems int    `json:"cart_total_items"`
	CartTotalPrice string `json:"cart_total_price"`
}

func newMutationResponse(summary *cartsvc.SummaryDTO, message string) mutationResponse {
	resp := mutationResponse{
		Success:        true,
		Message:        message,
		CartTotalPrice: "0.00",
	}
	if summary != nil {
		resp.CartTotalItems = summary.TotalItems
		resp.CartTotalPrice = summary.TotalPrice.StringFixed(2)
	}
	return resp
}

// writeMutationFailure maps a typed error to success:false with the
// public message. Internal causes still get logged with full detail.
func writeMutationFailure(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	message := "something went wrong"
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		message = meta.PublicMessage
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeOutOfStock:
			if typed.Message() != "" {
				message = typed.Message()
			}
		}
	}

	if logg != nil {
		logg.Error(ctx, "cart mutation failed", err)
	}

	writeMutation(w, mutationResponse{
		Success:        false,
		Message:        message,
		CartTotalPrice: "0.00",
	})
}

func writeMutation(w http.ResponseWriter, resp mutationResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
