package common

import (
	"fmt"
	"strings"
)

// GapPolicy defines the value recorded for a schema metric absent from a snapshot
type GapPolicy string

const (
	// GapZero records 0
	GapZero GapPolicy = "zero"
	// GapHold repeats the previous value of that metric, 0 if there is none
	GapHold GapPolicy = "hold"
	// GapBreak records NaN, an explicit break in the series
	GapBreak GapPolicy = "break"
)

// DefaultGapPolicy is used when the configuration does not name one
const DefaultGapPolicy = GapHold

// IsValid returns true for the known policies
func (p GapPolicy) IsValid() bool {
	switch p {
	case GapZero, GapHold, GapBreak:
		return true
	default:
		return false
	}
}

// ParseGapPolicy converts the configuration string. The empty string yields DefaultGapPolicy.
func ParseGapPolicy(value string) (GapPolicy, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultGapPolicy, nil
	}

	policy := GapPolicy(trimmed)
	if !policy.IsValid() {
		return "", fmt.Errorf("%w: unknown gap fill policy %q", ErrConfiguration, value)
	}

	return policy, nil
}
