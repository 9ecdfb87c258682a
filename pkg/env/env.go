package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// FirstOf returns the first non-empty variable among keys, or fallback when none is set.
func FirstOf(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := Get(key, ""); val != "" {
			return val
		}
	}
	return fallback
}
