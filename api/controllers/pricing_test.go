package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricing-engine/api/middleware"
	"github.com/angelmondragon/pricing-engine/internal/pricing"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/metrics"
)

type stubResolver struct {
	outcome pricing.Outcome
	err     error
	calls   int
	last    pricing.Request
}

func (s *stubResolver) Resolve(ctx context.Context, req pricing.Request) (pricing.Outcome, error) {
	s.calls++
	s.last = req
	if err := req.Validate(); err != nil {
		return pricing.Outcome{}, err
	}
	return s.outcome, s.err
}

func TestProductPriceReturnsResolvedPrice(t *testing.T) {
	productID := uuid.New()
	partnerID := uuid.New()
	listID := uuid.New()
	entryID := uuid.New()
	resolver := &stubResolver{outcome: pricing.Outcome{
		Found: true,
		Price: pricing.ResolvedPrice{
			PriceListID: listID,
			EntryID:     entryID,
			Price:       decimal.RequireFromString("9.99"),
			Currency:    "EUR",
		},
	}}
	reg := prometheus.NewRegistry()
	handler := ProductPrice(resolver, metrics.NewPricingMetrics(reg), testLogger())

	req := newRequest(http.MethodGet,
		"/api/v1/products/"+productID.String()+"/price?quantity=12&date=2024-06-01&partner_id="+partnerID.String(),
		"", map[string]string{"productId": productID.String()})
	req = req.WithContext(middleware.WithTenant(req.Context(), "acme"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeData(t, resp)
	assert.Equal(t, listID.String(), data["price_list_id"])
	assert.Equal(t, entryID.String(), data["entry_id"])
	assert.Equal(t, "9.99", data["price"])
	assert.Equal(t, "EUR", data["currency"])
	assert.EqualValues(t, 12, data["quantity"])

	require.Equal(t, 1, resolver.calls)
	assert.Equal(t, productID, resolver.last.ProductID)
	assert.Equal(t, 12, resolver.last.Quantity)
	require.NotNil(t, resolver.last.PartnerID)
	assert.Equal(t, partnerID, *resolver.last.PartnerID)
	require.NotNil(t, resolver.last.EvaluationDate)
	assert.True(t, resolver.last.EvaluationDate.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "acme", resolver.last.Tenant)
	assert.Equal(t, float64(1), counterValue(t, reg, "price_resolution_total", "outcome", metrics.OutcomeFound))
}

func TestProductPriceDefaultsToAnonymousSingleUnit(t *testing.T) {
	productID := uuid.New()
	resolver := &stubResolver{outcome: pricing.Outcome{Found: true, Price: pricing.ResolvedPrice{Currency: "USD"}}}
	handler := ProductPrice(resolver, nil, testLogger())

	req := newRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/price", "",
		map[string]string{"productId": productID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, resolver.last.Quantity)
	assert.Nil(t, resolver.last.PartnerID)
	assert.Nil(t, resolver.last.EvaluationDate)
	assert.Empty(t, resolver.last.Tenant)
}

func TestProductPriceAcceptsLargeQuantities(t *testing.T) {
	productID := uuid.New()
	resolver := &stubResolver{outcome: pricing.Outcome{Found: true, Price: pricing.ResolvedPrice{Currency: "USD"}}}
	handler := ProductPrice(resolver, nil, testLogger())

	req := newRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/price?quantity=250000000", "",
		map[string]string{"productId": productID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 250000000, resolver.last.Quantity)
	assert.EqualValues(t, 250000000, decodeData(t, resp)["quantity"])
}

func TestProductPriceNotFound(t *testing.T) {
	productID := uuid.New()
	reg := prometheus.NewRegistry()
	handler := ProductPrice(&stubResolver{}, metrics.NewPricingMetrics(reg), testLogger())

	req := newRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/price", "",
		map[string]string{"productId": productID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	apiErr := decodeError(t, resp)
	assert.Equal(t, string(pkgerrors.CodeNotFound), apiErr.Code)
	assert.Equal(t, "no applicable price configured", apiErr.Message)
	assert.Equal(t, float64(1), counterValue(t, reg, "price_resolution_total", "outcome", metrics.OutcomeNotFound))
}

func TestProductPriceRejectsMalformedInput(t *testing.T) {
	productID := uuid.New().String()
	cases := []struct {
		name   string
		param  string
		target string
	}{
		{name: "bad product id", param: "not-a-uuid", target: "/api/v1/products/not-a-uuid/price"},
		{name: "zero quantity", param: productID, target: "/api/v1/products/x/price?quantity=0"},
		{name: "negative quantity", param: productID, target: "/api/v1/products/x/price?quantity=-3"},
		{name: "non numeric quantity", param: productID, target: "/api/v1/products/x/price?quantity=abc"},
		{name: "bad date", param: productID, target: "/api/v1/products/x/price?date=01-06-2024"},
		{name: "bad partner", param: productID, target: "/api/v1/products/x/price?partner_id=nope"},
		{name: "nil partner", param: productID, target: "/api/v1/products/x/price?partner_id=" + uuid.Nil.String()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &stubResolver{}
			reg := prometheus.NewRegistry()
			handler := ProductPrice(resolver, metrics.NewPricingMetrics(reg), testLogger())

			req := newRequest(http.MethodGet, tc.target, "", map[string]string{"productId": tc.param})
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, resp).Code)
			assert.Zero(t, resolver.calls)
			assert.Equal(t, float64(1), counterValue(t, reg, "price_resolution_total", "outcome", metrics.OutcomeInvalid))
		})
	}
}

func TestProductPriceMapsResolverFailures(t *testing.T) {
	productID := uuid.New()
	cases := []struct {
		name    string
		err     error
		status  int
		outcome string
	}{
		{
			name:    "dependency",
			err:     pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("connection refused"), "db: fetch price candidates"),
			status:  http.StatusServiceUnavailable,
			outcome: metrics.OutcomeError,
		},
		{
			name:    "untyped",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			outcome: metrics.OutcomeError,
		},
		{
			name:    "validation",
			err:     pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"),
			status:  http.StatusBadRequest,
			outcome: metrics.OutcomeInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			handler := ProductPrice(&stubResolver{err: tc.err}, metrics.NewPricingMetrics(reg), testLogger())

			req := newRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/price", "",
				map[string]string{"productId": productID.String()})
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			require.Equal(t, tc.status, resp.Code)
			assert.Equal(t, float64(1), counterValue(t, reg, "price_resolution_total", "outcome", tc.outcome))
		})
	}
}

func TestProductPriceWithoutResolver(t *testing.T) {
	productID := uuid.New()
	handler := ProductPrice(nil, nil, testLogger())

	req := newRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/price", "",
		map[string]string{"productId": productID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
