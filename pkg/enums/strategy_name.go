package enums

import (
	"fmt"
	"strings"
)

// StrategyName identifies a built-in precedence policy that can be bound to a tenant.
type StrategyName string

const (
	StrategyNameDefault     StrategyName = "default"
	StrategyNameLowestPrice StrategyName = "lowest_price"
)

var validStrategyNames = []StrategyName{
	StrategyNameDefault,
	StrategyNameLowestPrice,
}

// String implements fmt.Stringer.
func (s StrategyName) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StrategyName.
func (s StrategyName) IsValid() bool {
	for _, candidate := range validStrategyNames {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStrategyName converts raw input into a StrategyName. Matching is case-insensitive.
func ParseStrategyName(value string) (StrategyName, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStrategyNames {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid strategy name %q", value)
}
