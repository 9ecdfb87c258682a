package enums

import "fmt"

// EntryStatus tracks whether a single price list entry can be quoted.
type EntryStatus string

const (
	EntryStatusActive    EntryStatus = "active"
	EntryStatusSuspended EntryStatus = "suspended"
	EntryStatusInactive  EntryStatus = "inactive"
)

var validEntryStatuses = []EntryStatus{
	EntryStatusActive,
	EntryStatusSuspended,
	EntryStatusInactive,
}

// String implements fmt.Stringer.
func (s EntryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EntryStatus.
func (s EntryStatus) IsValid() bool {
	for _, candidate := range validEntryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEntryStatus converts raw input into an EntryStatus.
func ParseEntryStatus(value string) (EntryStatus, error) {
	for _, candidate := range validEntryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entry status %q", value)
}
