package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mazraaty/backend/api/responses"
	"github.com/mazraaty/backend/api/validators"
	"github.com/mazraaty/backend/internal/catalog"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/types"
)

type adminProductCreateRequest struct {
	CategoryID        uuid.UUID           `json:"category_id" validate:"required"`
	SKU               string              `json:"sku" validate:"required,min=1"`
	Name              types.LocalizedText `json:"name" validate:"required"`
	Description       types.LocalizedText `json:"description,omitempty"`
	Specs             types.SpecList      `json:"specs,omitempty"`
	Features          types.FeatureList   `json:"features,omitempty"`
	Price             string              `json:"price,omitempty"`
	PriceUSD          string              `json:"price_usd,omitempty"`
	CompareAtPrice    *string             `json:"compare_at_price,omitempty"`
	ImageURL          *string             `json:"image_url,omitempty"`
	Gallery           []string            `json:"gallery,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	IsPublished       bool                `json:"is_published,omitempty"`
	IsFeatured        bool                `json:"is_featured,omitempty"`
	InitialStock      int                 `json:"initial_stock,omitempty" validate:"min=0"`
	LowStockThreshold int                 `json:"low_stock_threshold,omitempty" validate:"min=0"`
}

// AdminCreateProduct creates a listing with its opening stock.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminProductCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), actorID, catalog.CreateProductInput{
			CategoryID:        payload.CategoryID,
			SKU:               payload.SKU,
			Name:              payload.Name,
			Description:       payload.Description,
			Specs:             payload.Specs,
			Features:          payload.Features,
			Price:             payload.Price,
			PriceUSD:          payload.PriceUSD,
			CompareAtPrice:    payload.CompareAtPrice,
			ImageURL:          payload.ImageURL,
			Gallery:           payload.Gallery,
			Tags:              payload.Tags,
			IsPublished:       payload.IsPublished,
			IsFeatured:        payload.IsFeatured,
			InitialStock:      payload.InitialStock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type adminProductUpdateRequest struct {
	CategoryID     *uuid.UUID           `json:"category_id,omitempty"`
	SKU            *string              `json:"sku,omitempty" validate:"omitempty,min=1"`
	Name           *types.LocalizedText `json:"name,omitempty"`
	Description    *types.LocalizedText `json:"description,omitempty"`
	Specs          *types.SpecList      `json:"specs,omitempty"`
	Features       *types.FeatureList   `json:"features,omitempty"`
	Price          *string              `json:"price,omitempty"`
	PriceUSD       *string              `json:"price_usd,omitempty"`
	CompareAtPrice *string              `json:"compare_at_price,omitempty"`
	ImageURL       *string              `json:"image_url,omitempty"`
	Gallery        *[]string            `json:"gallery,omitempty"`
	Tags           *[]string            `json:"tags,omitempty"`
	IsPublished    *bool                `json:"is_published,omitempty"`
	IsFeatured     *bool                `json:"is_featured,omitempty"`
	RegenerateSlug bool                 `json:"regenerate_slug,omitempty"`
}

// AdminUpdateProduct applies partial updates. The slug stays stable unless
// regenerate_slug is set.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminProductUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			CategoryID:     payload.CategoryID,
			SKU:            payload.SKU,
			Name:           payload.Name,
			Description:    payload.Description,
			Specs:          payload.Specs,
			Features:       payload.Features,
			Price:          payload.Price,
			PriceUSD:       payload.PriceUSD,
			CompareAtPrice: payload.CompareAtPrice,
			ImageURL:       payload.ImageURL,
			Gallery:        payload.Gallery,
			Tags:           payload.Tags,
			IsPublished:    payload.IsPublished,
			IsFeatured:     payload.IsFeatured,
			RegenerateSlug: payload.RegenerateSlug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a listing and its stock records.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "product deleted"})
	}
}

// AdminGetProduct returns the full bilingual record.
func AdminGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetAdminProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminListProducts pages the full catalog including drafts.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListAdminProductsInput{
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
			Page:   page,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			categoryID, err := validators.ParseUUIDParam(raw, "category id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CategoryID = &categoryID
		}

		result, err := svc.ListAdminProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
