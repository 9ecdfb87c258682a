package pricing

import (
	"context"

	"github.com/google/uuid"
)

// CandidateCollector supplies every entry priced for a product, each with its PriceList
// (including partner assignments) populated. Implementations must return a single
// consistent snapshot per call; retries and timeouts are theirs to handle.
type CandidateCollector interface {
	FetchCandidates(ctx context.Context, productID uuid.UUID) ([]Entry, error)
}

// CollectorFunc adapts a plain function to CandidateCollector.
type CollectorFunc func(ctx context.Context, productID uuid.UUID) ([]Entry, error)

func (f CollectorFunc) FetchCandidates(ctx context.Context, productID uuid.UUID) ([]Entry, error) {
	return f(ctx, productID)
}

// StaticCollector serves candidates from an in-memory snapshot.
type StaticCollector struct {
	byProduct map[uuid.UUID][]Entry
}

// NewStaticCollector indexes entries by product.
func NewStaticCollector(entries ...Entry) *StaticCollector {
	byProduct := make(map[uuid.UUID][]Entry)
	for _, entry := range entries {
		byProduct[entry.ProductID] = append(byProduct[entry.ProductID], entry)
	}
	return &StaticCollector{byProduct: byProduct}
}

func (c *StaticCollector) FetchCandidates(ctx context.Context, productID uuid.UUID) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := c.byProduct[productID]
	out := make([]Entry, len(rows))
	copy(out, rows)
	return out, nil
}
