package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/apierr"
	"github.com/mcoot/judgecore/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// The log entry names the matched route and the ids in its path, and the
// INTERNAL_ERROR body quotes the caller's request id.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler, routeAttrs)
}

func apiPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalErrorRef(r.Header.Get("X-Request-ID")))
}

// routeAttrs logs e.g. route=/api/v1/contests/{contestID}/standings contest_id=c1
func routeAttrs(r *http.Request) []slog.Attr {
	route := mux.CurrentRoute(r)
	if route == nil {
		return nil
	}

	var attrs []slog.Attr
	if tmpl, err := route.GetPathTemplate(); err == nil {
		attrs = append(attrs, slog.String("route", tmpl))
	}
	vars := mux.Vars(r)
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		attrs = append(attrs, slog.String(logKey(name), vars[name]))
	}
	return attrs
}

// logKey turns a path variable such as contestID into contest_id
func logKey(name string) string {
	if base, ok := strings.CutSuffix(name, "ID"); ok && base != "" {
		return base + "_id"
	}
	return name
}
