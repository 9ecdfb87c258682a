package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/pricing-engine/api/responses"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

const (
	tenantHeader    = "X-Tenant-ID"
	maxTenantLength = 64
)

// Tenant reads the optional X-Tenant-ID header, normalizes it and stores it on the
// request context and log fields.
func Tenant(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := strings.ToLower(strings.TrimSpace(r.Header.Get(tenantHeader)))
			if len(tenant) > maxTenantLength {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant header too long").
					WithDetails(map[string]any{"header": tenantHeader, "max": maxTenantLength}))
				return
			}

			ctx := WithTenant(r.Context(), tenant)
			if logg != nil {
				ctx = logg.WithTenant(ctx, tenant)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
