package recode

import "fmt"

// ErrorPolicy governs how codecs treat malformed input.
type ErrorPolicy string

const (
	// Strict fails on the first malformed sequence.
	Strict ErrorPolicy = "strict"

	// Replace substitutes U+FFFD on decode and '?' on encode.
	Replace ErrorPolicy = "replace"

	// Ignore drops malformed sequences.
	Ignore ErrorPolicy = "ignore"
)

// validPolicies contains all valid error policies.
var validPolicies = map[ErrorPolicy]bool{
	Strict:  true,
	Replace: true,
	Ignore:  true,
	"":      true,
}

// IsValidPolicy returns true if the policy is known. The empty policy is
// valid and means Strict.
func IsValidPolicy(p ErrorPolicy) bool {
	return validPolicies[p]
}

// Validate returns ErrInvalidPolicy for unknown policies.
func (p ErrorPolicy) Validate() error {
	if !IsValidPolicy(p) {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, string(p))
	}
	return nil
}

// orStrict resolves the empty policy.
func (p ErrorPolicy) orStrict() ErrorPolicy {
	if p == "" {
		return Strict
	}
	return p
}

// ParsePolicy converts a user-supplied string into an ErrorPolicy.
func ParsePolicy(s string) (ErrorPolicy, error) {
	p := ErrorPolicy(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p.orStrict(), nil
}
