package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mazraaty/backend/api/middleware"
	"github.com/mazraaty/backend/internal/cart"
)

type stubCartService struct {
	dto       *cart.CartDTO
	err       error
	addedQty  int
	addedID   uuid.UUID
	removedID uuid.UUID
	cleared   bool
}

func (s *stubCartService) GetCart(_ context.Context, userID uuid.UUID, locale string) (*cart.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) AddItem(_ context.Context, userID, productID uuid.UUID, quantity int, locale string) (*cart.CartDTO, error) {
	s.addedID = productID
	s.addedQty = quantity
	return s.dto, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, userID, itemID uuid.UUID, quantity int, locale string) (*cart.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, userID, itemID uuid.UUID, locale string) (*cart.CartDTO, error) {
	s.removedID = itemID
	return s.dto, s.err
}

func (s *stubCartService) Merge(_ context.Context, userID uuid.UUID, lines []cart.MergeLine, locale string) (*cart.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) Clear(_ context.Context, userID uuid.UUID) error {
	s.cleared = true
	return s.err
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetCartRequiresUser(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{Currency: "OMR"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	GetCart(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", rec.Code)
	}
}

func TestAddCartItemForwardsPayload(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{Currency: "OMR"}}
	productID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+productID.String()+`","quantity":3}`)
	rec := httptest.NewRecorder()
	AddCartItem(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.addedID != productID || stub.addedQty != 3 {
		t.Fatalf("expected product %s qty 3, got %s qty %d", productID, stub.addedID, stub.addedQty)
	}
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{}}
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+uuid.NewString()+`","quantity":0}`)
	rec := httptest.NewRecorder()
	AddCartItem(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRemoveCartItemParsesItemID(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{}}
	itemID := uuid.New()
	req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), ""), "itemID", itemID.String())
	rec := httptest.NewRecorder()
	RemoveCartItem(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.removedID != itemID {
		t.Fatalf("expected item %s removed, got %s", itemID, stub.removedID)
	}
}

func TestRemoveCartItemRejectsBadID(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{}}
	req := withURLParam(authedRequest(http.MethodDelete, "/api/v1/cart/items/nope", ""), "itemID", "nope")
	rec := httptest.NewRecorder()
	RemoveCartItem(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMergeCartRejectsEmptyPayload(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{}}
	req := authedRequest(http.MethodPost, "/api/v1/cart/merge", `{"items":[]}`)
	rec := httptest.NewRecorder()
	MergeCart(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMergeCartReturnsMergedState(t *testing.T) {
	stub := &stubCartService{dto: &cart.CartDTO{Currency: "OMR"}}
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":2}]}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/merge", body)
	rec := httptest.NewRecorder()
	MergeCart(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClearCart(t *testing.T) {
	stub := &stubCartService{}
	req := authedRequest(http.MethodDelete, "/api/v1/cart", "")
	rec := httptest.NewRecorder()
	ClearCart(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !stub.cleared {
		t.Fatalf("expected Clear to be invoked")
	}
}
