package pricecache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type generationBumper interface {
	BumpGeneration(ctx context.Context, productID string) (int64, error)
}

// Invalidator drops every cached resolution of a product by advancing its generation.
type Invalidator struct {
	store generationBumper
}

// NewInvalidator builds an invalidator over the cache store.
func NewInvalidator(store generationBumper) *Invalidator {
	return &Invalidator{store: store}
}

// InvalidateProduct bumps the product generation.
func (i *Invalidator) InvalidateProduct(ctx context.Context, productID uuid.UUID) error {
	if i == nil || i.store == nil {
		return nil
	}
	if _, err := i.store.BumpGeneration(ctx, productID.String()); err != nil {
		return fmt.Errorf("bump price cache generation: %w", err)
	}
	return nil
}
