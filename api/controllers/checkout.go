package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/api/middleware"
	"github.com/mazraaty/backend/api/responses"
	"github.com/mazraaty/backend/api/validators"
	"github.com/mazraaty/backend/internal/checkout"
	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/types"
)

type shippingAddressRequest struct {
	Name       string `json:"name" validate:"required,min=1"`
	Line1      string `json:"line1" validate:"required,min=1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required,min=1"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone,omitempty"`
}

func (a shippingAddressRequest) toSnapshot() types.AddressSnapshot {
	return types.AddressSnapshot{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type checkoutRequest struct {
	ShippingAddress shippingAddressRequest `json:"shipping_address" validate:"required"`
	SaveAddress     bool                   `json:"save_address,omitempty"`
	ShippingMethod  string                 `json:"shipping_method" validate:"required,oneof=standard express"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=cod bank_transfer"`
	Notes           *string                `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Checkout converts the signed-in customer's cart into an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), userID, checkout.Input{
			ShippingAddress: payload.ShippingAddress.toSnapshot(),
			SaveAddress:     payload.SaveAddress,
			ShippingMethod:  enums.ShippingMethod(payload.ShippingMethod),
			PaymentMethod:   enums.PaymentMethod(payload.PaymentMethod),
			Notes:           payload.Notes,
			Locale:          middleware.LocaleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type guestCheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type guestCheckoutRequest struct {
	Email           string                     `json:"email" validate:"required,email"`
	Items           []guestCheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest     `json:"shipping_address" validate:"required"`
	ShippingMethod  string                     `json:"shipping_method" validate:"required,oneof=standard express"`
	PaymentMethod   string                     `json:"payment_method" validate:"required,oneof=cod bank_transfer"`
	Notes           *string                    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// GuestCheckout places an order without an account.
func GuestCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload guestCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkout.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkout.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := svc.GuestCheckout(r.Context(), checkout.Input{
			GuestEmail:      payload.Email,
			Items:           items,
			ShippingAddress: payload.ShippingAddress.toSnapshot(),
			ShippingMethod:  enums.ShippingMethod(payload.ShippingMethod),
			PaymentMethod:   enums.PaymentMethod(payload.PaymentMethod),
			Notes:           payload.Notes,
			Locale:          middleware.LocaleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
