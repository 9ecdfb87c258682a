package pricing

import (
	"strings"
	"sync"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
)

// StrategyRegistry maps tenants to precedence strategies. Unknown tenants get the fallback.
type StrategyRegistry struct {
	mu       sync.RWMutex
	fallback PrecedenceStrategy
	byTenant map[string]PrecedenceStrategy
}

// NewStrategyRegistry builds a registry; a nil fallback selects DefaultStrategy.
func NewStrategyRegistry(fallback PrecedenceStrategy) *StrategyRegistry {
	if fallback == nil {
		fallback = DefaultStrategy{}
	}
	return &StrategyRegistry{
		fallback: fallback,
		byTenant: make(map[string]PrecedenceStrategy),
	}
}

// Register binds strategy to tenant, replacing any previous binding.
func (r *StrategyRegistry) Register(tenant string, strategy PrecedenceStrategy) error {
	key := normalizeTenant(tenant)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant is required")
	}
	if strategy == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "strategy is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTenant[key] = strategy
	return nil
}

// For returns the strategy bound to tenant, or the fallback.
func (r *StrategyRegistry) For(tenant string) PrecedenceStrategy {
	if r == nil {
		return DefaultStrategy{}
	}
	key := normalizeTenant(tenant)
	if key != "" {
		r.mu.RLock()
		strategy, ok := r.byTenant[key]
		r.mu.RUnlock()
		if ok {
			return strategy
		}
	}
	return r.fallback
}

func normalizeTenant(tenant string) string {
	return strings.ToLower(strings.TrimSpace(tenant))
}

// BuiltinStrategy returns the strategy registered under a built-in name.
func BuiltinStrategy(name enums.StrategyName) (PrecedenceStrategy, error) {
	switch name {
	case enums.StrategyNameDefault:
		return DefaultStrategy{}, nil
	case enums.StrategyNameLowestPrice:
		return LowestPriceStrategy{}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown strategy "+name.String())
}

// RegistryFromNames builds a registry from a fallback name and tenant:name bindings.
func RegistryFromNames(fallback string, tenants map[string]string) (*StrategyRegistry, error) {
	fallbackName, err := enums.ParseStrategyName(fallback)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "default strategy")
	}
	fallbackStrategy, err := BuiltinStrategy(fallbackName)
	if err != nil {
		return nil, err
	}
	registry := NewStrategyRegistry(fallbackStrategy)
	for tenant, raw := range tenants {
		name, err := enums.ParseStrategyName(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "strategy for tenant "+tenant)
		}
		strategy, err := BuiltinStrategy(name)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(tenant, strategy); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
