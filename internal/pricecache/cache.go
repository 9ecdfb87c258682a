package pricecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/internal/pricing"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
	"github.com/angelmondragon/pricing-engine/pkg/metrics"
	"github.com/angelmondragon/pricing-engine/pkg/redis"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultDateBucket = time.Hour
)

// Resolver is the resolution surface shared by the engine and its decorators.
type Resolver interface {
	Resolve(ctx context.Context, req pricing.Request) (pricing.Outcome, error)
}

// Store is the redis surface used by the cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Generation(ctx context.Context, productID string) (int64, error)
	BumpGeneration(ctx context.Context, productID string) (int64, error)
	PriceCacheKey(k redis.PriceKey) string
}

// Options tunes the cache. A zero TTL uses DefaultTTL; a zero DateBucket keys entries by
// the exact evaluation second.
type Options struct {
	TTL        time.Duration
	DateBucket time.Duration
	Clock      func() time.Time
	Metrics    *metrics.PricingMetrics
}

// CachedResolver serves repeated resolutions from redis. Keys embed a per-product
// generation so a single bump invalidates every cached answer for that product. Entries
// carry the outcome's stable window and a hit outside it is resolved afresh, so requests
// sharing a date bucket never see an answer the engine would give differently. Cache
// failures never fail a resolution.
type CachedResolver struct {
	next    Resolver
	store   Store
	logg    *logger.Logger
	ttl     time.Duration
	bucket  time.Duration
	now     func() time.Time
	metrics *metrics.PricingMetrics
}

var _ Resolver = (*CachedResolver)(nil)

// NewCachedResolver wraps next with a redis-backed cache.
func NewCachedResolver(next Resolver, store Store, logg *logger.Logger, opts Options) (*CachedResolver, error) {
	if next == nil {
		return nil, fmt.Errorf("resolver required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	c := &CachedResolver{
		next:    next,
		store:   store,
		logg:    logg,
		ttl:     opts.TTL,
		bucket:  opts.DateBucket,
		now:     opts.Clock,
		metrics: opts.Metrics,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.bucket < 0 {
		c.bucket = DefaultDateBucket
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Resolve returns the cached outcome for req when present, otherwise delegates and stores
// the fresh outcome. Errors from the wrapped resolver are never cached.
func (c *CachedResolver) Resolve(ctx context.Context, req pricing.Request) (pricing.Outcome, error) {
	if err := req.Validate(); err != nil {
		return pricing.Outcome{}, err
	}

	evaluationDate := c.now()
	if req.EvaluationDate != nil {
		evaluationDate = *req.EvaluationDate
	}
	req.EvaluationDate = &evaluationDate

	productID := req.ProductID.String()
	ctx = c.logg.WithProductID(ctx, productID)

	gen, err := c.store.Generation(ctx, productID)
	if err != nil {
		c.bypass(ctx, "price cache generation lookup failed", err)
		return c.next.Resolve(ctx, req)
	}

	key := c.store.PriceCacheKey(redis.PriceKey{
		ProductID:  productID,
		Generation: gen,
		PartnerID:  partnerKey(req.PartnerID),
		Tenant:     req.Tenant,
		Quantity:   req.Quantity,
		DateBucket: c.bucketFor(evaluationDate),
	})

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		out, decodeErr := decodeOutcome(raw)
		if decodeErr != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", decodeErr.Error()), "discarding undecodable price cache entry")
			break
		}
		if out.Window.Contains(evaluationDate) {
			c.metrics.IncCache(metrics.CacheHit)
			return out, nil
		}
		c.logg.Debug(ctx, "price cache entry outside its validity window")
	case errors.Is(err, redis.ErrCacheMiss):
	default:
		c.bypass(ctx, "price cache read failed", err)
		return c.next.Resolve(ctx, req)
	}

	c.metrics.IncCache(metrics.CacheMiss)
	out, err := c.next.Resolve(ctx, req)
	if err != nil {
		return out, err
	}

	payload, err := encodeOutcome(out)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "price cache encode failed")
		return out, nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "price cache write failed")
	}
	return out, nil
}

func (c *CachedResolver) bypass(ctx context.Context, msg string, err error) {
	c.metrics.IncCache(metrics.CacheError)
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}

func (c *CachedResolver) bucketFor(t time.Time) time.Time {
	t = t.UTC()
	if c.bucket == 0 {
		return t.Truncate(time.Second)
	}
	return t.Truncate(c.bucket)
}

func partnerKey(partnerID *uuid.UUID) string {
	if partnerID == nil {
		return ""
	}
	return partnerID.String()
}

type cachedOutcome struct {
	Found       bool            `json:"found"`
	PriceListID uuid.UUID       `json:"price_list_id"`
	EntryID     uuid.UUID       `json:"entry_id"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	ValidFrom   *time.Time      `json:"valid_from,omitempty"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
}

func encodeOutcome(out pricing.Outcome) (string, error) {
	payload, err := json.Marshal(cachedOutcome{
		Found:       out.Found,
		PriceListID: out.Price.PriceListID,
		EntryID:     out.Price.EntryID,
		Price:       out.Price.Price,
		Currency:    out.Price.Currency,
		ValidFrom:   out.Window.From,
		ValidUntil:  out.Window.Until,
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func decodeOutcome(raw string) (pricing.Outcome, error) {
	var cached cachedOutcome
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return pricing.Outcome{}, err
	}
	window := pricing.Window{From: cached.ValidFrom, Until: cached.ValidUntil}
	if !cached.Found {
		return pricing.Outcome{Window: window}, nil
	}
	return pricing.Outcome{
		Found:  true,
		Window: window,
		Price: pricing.ResolvedPrice{
			PriceListID: cached.PriceListID,
			EntryID:     cached.EntryID,
			Price:       cached.Price,
			Currency:    cached.Currency,
		},
	}, nil
}
