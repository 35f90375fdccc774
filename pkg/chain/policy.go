package chain

import (
	"strings"

	"github.com/matzehuels/bidchain/pkg/errors"
)

// Policy selects how intermediary fees are assigned.
type Policy int

const (
	// ConversionPolicy gives exactly one randomly chosen intermediary a
	// nonzero integer fee multiplier; every other intermediary sells for $0.
	ConversionPolicy Policy = iota
	// CheapestPolicy makes every intermediary apply an independent random
	// markdown to the bid it forwards.
	CheapestPolicy
)

// Policy names accepted by ParsePolicy.
const (
	PolicyNameConversion = "conversion"
	PolicyNameCheapest   = "cheapest"
)

// String returns the policy's canonical name.
func (p Policy) String() string {
	switch p {
	case ConversionPolicy:
		return PolicyNameConversion
	case CheapestPolicy:
		return PolicyNameCheapest
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == ConversionPolicy || p == CheapestPolicy
}

// ParsePolicy maps a case-insensitive policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case PolicyNameConversion:
		return ConversionPolicy, nil
	case PolicyNameCheapest:
		return CheapestPolicy, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidParameter, "invalid policy: %q (must be %q or %q)", s, PolicyNameConversion, PolicyNameCheapest)
	}
}

// Policies lists every supported policy in display order.
func Policies() []Policy {
	return []Policy{ConversionPolicy, CheapestPolicy}
}
