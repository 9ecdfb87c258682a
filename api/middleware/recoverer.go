package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/pricing-engine/api/responses"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

// Recoverer turns handler panics into an INTERNAL_ERROR envelope. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  fmt.Sprint(rec),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
