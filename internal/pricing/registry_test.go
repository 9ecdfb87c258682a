package pricing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
)

func TestStrategyRegistry(t *testing.T) {
	registry := NewStrategyRegistry(nil)

	assert.IsType(t, DefaultStrategy{}, registry.For(""))
	assert.IsType(t, DefaultStrategy{}, registry.For("unknown"))

	require.NoError(t, registry.Register(" ACME ", LowestPriceStrategy{}))
	assert.IsType(t, LowestPriceStrategy{}, registry.For("acme"))

	err := registry.Register("", LowestPriceStrategy{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	err = registry.Register("globex", nil)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	var nilRegistry *StrategyRegistry
	assert.IsType(t, DefaultStrategy{}, nilRegistry.For("acme"))
}

func TestStrategyRegistryConcurrentAccess(t *testing.T) {
	registry := NewStrategyRegistry(DefaultStrategy{})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = registry.Register("acme", LowestPriceStrategy{})
		}()
		go func() {
			defer wg.Done()
			_ = registry.For("acme")
		}()
	}
	wg.Wait()
	assert.IsType(t, LowestPriceStrategy{}, registry.For("acme"))
}

func TestRegistryFromNames(t *testing.T) {
	registry, err := RegistryFromNames("default", map[string]string{"acme": "LOWEST_PRICE"})
	require.NoError(t, err)
	assert.IsType(t, LowestPriceStrategy{}, registry.For("acme"))
	assert.IsType(t, DefaultStrategy{}, registry.For("globex"))

	_, err = RegistryFromNames("cheapest", nil)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = RegistryFromNames("default", map[string]string{"acme": "bogus"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
