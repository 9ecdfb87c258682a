package enums

import "fmt"

// PriceListStatus tracks the lifecycle state of a price list.
type PriceListStatus string

const (
	PriceListStatusActive    PriceListStatus = "active"
	PriceListStatusSuspended PriceListStatus = "suspended"
	PriceListStatusExpired   PriceListStatus = "expired"
	PriceListStatusDeleted   PriceListStatus = "deleted"
)

var validPriceListStatuses = []PriceListStatus{
	PriceListStatusActive,
	PriceListStatusSuspended,
	PriceListStatusExpired,
	PriceListStatusDeleted,
}

// String implements fmt.Stringer.
func (s PriceListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PriceListStatus.
func (s PriceListStatus) IsValid() bool {
	for _, candidate := range validPriceListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePriceListStatus converts raw input into a PriceListStatus.
func ParsePriceListStatus(value string) (PriceListStatus, error) {
	for _, candidate := range validPriceListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price list status %q", value)
}
