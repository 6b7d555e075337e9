package repository

import (
	"errors"
	"testing"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := map[string]error{
		"conflict":     ErrConflict,
		"not found":    ErrNotFound,
		"invalid ref":  ErrInvalidRef,
		"email exists": ErrEmailExists,
	}
	for aName, a := range sentinels {
		for bName, b := range sentinels {
			if aName == bName {
				continue
			}
			if errors.Is(a, b) {
				t.Fatalf("%s must not match %s", aName, bName)
			}
		}
	}
}
