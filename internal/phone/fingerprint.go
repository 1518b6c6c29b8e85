// Package phone reduces phone-number strings to comparable identity keys.
package phone

import "strings"

// LooseDigits is the number of trailing digits two numbers must share to be
// considered the same identity under loose matching. Seven digits tolerates
// optional country and area-code prefixes ("+1 555-123-4567" vs "5551234567").
const LooseDigits = 7

// Fingerprint is a pair of identity keys derived from a raw phone number.
// Loose keeps only the trailing LooseDigits digits; Strict keeps every digit.
// Neither key is ever persisted; fingerprints are recomputed on demand.
type Fingerprint struct {
	Loose  string
	Strict string
}

// Canonicalize strips all formatting from raw and returns its fingerprint.
// It is total and deterministic: any input produces a result, and an empty
// or digit-free input yields empty keys.
func Canonicalize(raw string) Fingerprint {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	strict := b.String()
	loose := strict
	if len(strict) > LooseDigits {
		loose = strict[len(strict)-LooseDigits:]
	}

	return Fingerprint{Loose: loose, Strict: strict}
}

// SameLoose reports whether two raw numbers share a loose identity.
// Two empty or digit-free inputs compare equal; an empty key never matches a
// non-empty one.
func SameLoose(a, b string) bool {
	return Canonicalize(a).Loose == Canonicalize(b).Loose
}

// SameStrict reports whether two raw numbers are digit-for-digit identical.
func SameStrict(a, b string) bool {
	return Canonicalize(a).Strict == Canonicalize(b).Strict
}
