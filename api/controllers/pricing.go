package controllers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/api/middleware"
	"github.com/angelmondragon/pricing-engine/api/responses"
	"github.com/angelmondragon/pricing-engine/api/validators"
	"github.com/angelmondragon/pricing-engine/internal/pricing"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
	"github.com/angelmondragon/pricing-engine/pkg/metrics"
)

const maxQuantity = math.MaxInt32

// PriceResolver resolves the effective price of a product.
type PriceResolver interface {
	Resolve(ctx context.Context, req pricing.Request) (pricing.Outcome, error)
}

type priceResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	PriceListID uuid.UUID       `json:"price_list_id"`
	EntryID     uuid.UUID       `json:"entry_id"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Quantity    int             `json:"quantity"`
}

// ProductPrice handles GET /api/v1/products/{productId}/price.
func ProductPrice(resolver PriceResolver, m *metrics.PricingMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price resolver unavailable"))
			return
		}
		start := time.Now()

		req, err := priceRequestFromHTTP(r)
		if err != nil {
			m.ObserveResolution(metrics.OutcomeInvalid, time.Since(start))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, req.ProductID.String())
			partner := ""
			if req.PartnerID != nil {
				partner = req.PartnerID.String()
			}
			ctx = logg.WithPartnerID(ctx, partner)
		}

		out, err := resolver.Resolve(ctx, req)
		if err != nil {
			outcome := metrics.OutcomeError
			if pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				outcome = metrics.OutcomeInvalid
			}
			m.ObserveResolution(outcome, time.Since(start))
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if !out.Found {
			m.ObserveResolution(metrics.OutcomeNotFound, time.Since(start))
			responses.WriteError(ctx, logg, w, out.NotFoundError(req.ProductID))
			return
		}

		m.ObserveResolution(metrics.OutcomeFound, time.Since(start))
		responses.WriteSuccess(w, priceResponse{
			ProductID:   req.ProductID,
			PriceListID: out.Price.PriceListID,
			EntryID:     out.Price.EntryID,
			Price:       out.Price.Price,
			Currency:    out.Price.Currency,
			Quantity:    req.Quantity,
		})
	}
}

func priceRequestFromHTTP(r *http.Request) (pricing.Request, error) {
	productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		return pricing.Request{}, err
	}
	quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, maxQuantity)
	if err != nil {
		return pricing.Request{}, err
	}
	date, err := validators.ParseQueryTime(r, "date")
	if err != nil {
		return pricing.Request{}, err
	}
	partnerID, err := validators.ParseQueryUUID(r, "partner_id")
	if err != nil {
		return pricing.Request{}, err
	}
	return pricing.Request{
		ProductID:      productID,
		Quantity:       quantity,
		EvaluationDate: date,
		PartnerID:      partnerID,
		Tenant:         middleware.TenantFromContext(r.Context()),
	}, nil
}
