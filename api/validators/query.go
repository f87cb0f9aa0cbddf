package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/pagination"
)

// ParsePagination pulls cursor pagination inputs off the query string.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer")
		}
		params.Limit = limit
	}
	return params, nil
}

// ParseUUIDParam validates a URL parameter as a UUID.
func ParseUUIDParam(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a valid uuid")
	}
	return id, nil
}

// ParseLocale normalizes the requested response language, defaulting to English.
func ParseLocale(r *http.Request) string {
	locale := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("locale")))
	if locale == "" {
		locale = strings.ToLower(strings.TrimSpace(r.Header.Get("Accept-Language")))
		if idx := strings.IndexAny(locale, ",;-"); idx > 0 {
			locale = locale[:idx]
		}
	}
	if locale == "ar" {
		return "ar"
	}
	return "en"
}
