package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler is a function that handles panics and writes an error response
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// AttrFunc adds request-specific fields to the panic log entry
type AttrFunc func(r *http.Request) []slog.Attr

// Recovery creates panic recovery middleware with a custom panic handler.
// http.ErrAbortHandler is re-raised so net/http can abort the response quietly.
func Recovery(logger *slog.Logger, handler PanicHandler, extra ...AttrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				attrs := []any{
					slog.String("error", fmt.Sprint(err)),
					slog.String("stack", string(debug.Stack())),
					slog.String("request_id", requestID(r)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				for _, f := range extra {
					for _, a := range f(r) {
						attrs = append(attrs, a)
					}
				}
				logger.Error("panic recovered", attrs...)

				handler(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler returns a simple 500 Internal Server Error
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
