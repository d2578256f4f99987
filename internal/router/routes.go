package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route is one method and pattern registered on the router.
type Route struct {
	Method      string
	Pattern     string
	Middlewares int
}

// List walks a handler built by New and returns its routes ordered by
// pattern, then method.
func List(h http.Handler) ([]Route, error) {
	mux, ok := h.(chi.Routes)
	if !ok {
		return nil, fmt.Errorf("handler %T does not expose its routes", h)
	}

	var routes []Route
	err := chi.Walk(mux, func(method string, pattern string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{
			Method:      method,
			Pattern:     pattern,
			Middlewares: len(mws),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}

	slices.SortFunc(routes, func(a, b Route) int {
		if c := strings.Compare(a.Pattern, b.Pattern); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return routes, nil
}
