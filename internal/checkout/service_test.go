package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/money"
	"github.com/mazraaty/backend/pkg/types"
)

func validCheckoutInput() Input {
	return Input{
		ShippingAddress: types.AddressSnapshot{
			Name:    "Said Al Busaidi",
			Line1:   "Way 3012, Al Khoud",
			City:    "Muscat",
			Country: "OM",
			Phone:   "+968 9123 4567",
		},
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodCashOnDelivery,
	}
}

func TestValidateCommonRejectsUnknownMethods(t *testing.T) {
	svc := &service{}

	input := validCheckoutInput()
	input.ShippingMethod = enums.ShippingMethod("teleport")
	assertValidationError(t, svc.validateCommon(input))

	input = validCheckoutInput()
	input.PaymentMethod = enums.PaymentMethod("barter")
	assertValidationError(t, svc.validateCommon(input))
}

func TestValidateCommonReportsMissingAddressField(t *testing.T) {
	svc := &service{}
	input := validCheckoutInput()
	input.ShippingAddress.City = ""

	err := svc.validateCommon(input)
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["missing"] != "city" {
		t.Fatalf("expected missing field city, got %v", typed.Details())
	}
}

func TestCheckoutRequiresPhoneForAccountHolders(t *testing.T) {
	svc := &service{}
	input := validCheckoutInput()
	input.ShippingAddress.Phone = "  "

	_, err := svc.Checkout(context.Background(), uuid.New(), input)
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["missing"] != "phone" {
		t.Fatalf("expected missing field phone, got %v", typed.Details())
	}
}

func TestValidateCommonAcceptsCompleteInput(t *testing.T) {
	svc := &service{}
	if err := svc.validateCommon(validCheckoutInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestShippingFeeSelectsMethod(t *testing.T) {
	svc := &service{
		standardFee: money.MustParse("2.000"),
		expressFee:  money.MustParse("5.000"),
	}

	if got := svc.shippingFee(enums.ShippingMethodStandard); !got.Equal(svc.standardFee) {
		t.Fatalf("standard fee mismatch: %s", got.StringFixed(3))
	}
	if got := svc.shippingFee(enums.ShippingMethodExpress); !got.Equal(svc.expressFee) {
		t.Fatalf("express fee mismatch: %s", got.StringFixed(3))
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
