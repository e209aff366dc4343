package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/middleware"
	"github.com/ravitejamarri/zypool/internal/session"
)

// pathParam binds the simple-style path parameter name. It writes a 422 and
// returns false when the parameter is missing or malformed.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || v == "" {
		requestError(w, "invalid path parameter "+name)
		return "", false
	}
	return v, true
}

// paginationParams binds the optional ?page= and ?limit= query parameters.
func paginationParams(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		requestError(w, "page must be an integer")
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		requestError(w, "limit must be an integer")
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// sessionOf returns the caller's session. RequireSession guarantees one on
// every authenticated route; its absence is a wiring bug.
func sessionOf(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
	}
	return s, ok
}
