package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
)

// Request describes one price resolution.
type Request struct {
	ProductID uuid.UUID
	Quantity  int
	// EvaluationDate defaults to the resolver clock when nil.
	EvaluationDate *time.Time
	// PartnerID is nil for anonymous resolutions.
	PartnerID *uuid.UUID
	// Tenant selects a registered strategy; empty uses the fallback.
	Tenant string
}

// Validate reports malformed requests as VALIDATION_ERROR typed errors.
func (r Request) Validate() error {
	if r.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if r.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": r.Quantity})
	}
	if r.EvaluationDate != nil && r.EvaluationDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "evaluation date is malformed")
	}
	if r.PartnerID != nil && *r.PartnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "partner id is malformed")
	}
	return nil
}

// ResolvedPrice is the winning entry's price.
type ResolvedPrice struct {
	PriceListID uuid.UUID
	EntryID     uuid.UUID
	Price       decimal.Decimal
	Currency    string
}

// Outcome is the result of a resolution. Found is false when nothing applies, which is a
// normal business outcome rather than an error.
type Outcome struct {
	Found bool
	Price ResolvedPrice
	// Window bounds the evaluation dates that share this outcome for the same candidates.
	Window Window
}

// NotFoundError converts a not-found outcome into a typed NOT_FOUND error; it returns nil
// when a price was found.
func (o Outcome) NotFoundError(productID uuid.UUID) error {
	if o.Found {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price configured").
		WithDetails(map[string]any{"product_id": productID.String()})
}

// Select runs filter, ordering and head selection over an already fetched candidate set.
func Select(strategy PrecedenceStrategy, candidates []Entry, evaluationDate time.Time, quantity int, partnerID *uuid.UUID) Outcome {
	applicable := make([]Entry, 0, len(candidates))
	for _, entry := range candidates {
		if strategy.IsEntryApplicable(entry, evaluationDate, quantity) {
			applicable = append(applicable, entry)
		}
	}
	if len(applicable) == 0 {
		return Outcome{}
	}

	ordered := strategy.OrderByPrecedence(applicable, partnerID)
	if len(ordered) == 0 {
		return Outcome{}
	}
	winner := ordered[0]
	return Outcome{
		Found: true,
		Price: ResolvedPrice{
			PriceListID: winner.PriceList.ID,
			EntryID:     winner.ID,
			Price:       winner.Price,
			Currency:    winner.Currency,
		},
	}
}

// Resolver is the stateless facade over collection, filtering and ordering.
type Resolver struct {
	collector  CandidateCollector
	strategies *StrategyRegistry
	now        func() time.Time
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source used when a request has no evaluation date.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithStrategies installs a tenant strategy registry.
func WithStrategies(registry *StrategyRegistry) Option {
	return func(r *Resolver) {
		if registry != nil {
			r.strategies = registry
		}
	}
}

// NewResolver builds a resolver over collector.
func NewResolver(collector CandidateCollector, opts ...Option) (*Resolver, error) {
	if collector == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "candidate collector required")
	}
	r := &Resolver{
		collector:  collector,
		strategies: NewStrategyRegistry(nil),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve selects the effective price for req. Invalid requests fail with a VALIDATION_ERROR;
// collector failures are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	evaluationDate := r.now()
	if req.EvaluationDate != nil {
		evaluationDate = *req.EvaluationDate
	}

	candidates, err := r.collector.FetchCandidates(ctx, req.ProductID)
	if err != nil {
		return Outcome{}, err
	}

	out := Select(r.strategies.For(req.Tenant), candidates, evaluationDate, req.Quantity, req.PartnerID)
	out.Window = StableWindow(candidates, evaluationDate)
	return out, nil
}
