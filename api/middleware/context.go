package middleware

import "context"

type contextKey string

const (
	ctxTenant    contextKey = "tenant"
	ctxRequestID contextKey = "request_id"
)

// TenantFromContext returns the tenant resolved by the Tenant middleware.
func TenantFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxTenant)
}

// WithTenant injects the tenant identifier into the context.
func WithTenant(ctx context.Context, tenant string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenant, tenant)
}

// RequestIDFromContext returns the id assigned by the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRequestID)
}

// WithRequestID injects the request id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, id)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
