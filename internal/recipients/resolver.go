// Package recipients computes the participant identity of an incoming message
// batch: which phone numbers key the conversation it belongs to, and whether
// the batch is an echo of something this device already sent.
package recipients

import (
	"context"
	"strings"

	"github.com/textforge/smshub/internal/phone"
)

// Separator joins participant numbers into the conversation identity string.
const Separator = ", "

// ContactLookup resolves a phone number to a display name. Implementations
// must not fail: unknown numbers come back as the number itself or empty.
type ContactLookup interface {
	DisplayName(ctx context.Context, number string) string
}

// ContactLookupFunc adapts a function to the ContactLookup interface.
type ContactLookupFunc func(ctx context.Context, number string) string

func (f ContactLookupFunc) DisplayName(ctx context.Context, number string) string {
	return f(ctx, number)
}

// Resolve builds the ordered, de-duplicated participant string for a message
// addressed from `from` to the comma-separated `toCsv` list. A "to" entry is
// dropped when it is the sender again, one of this device's own numbers, a
// contact literally named "me", or empty. The sender is always appended last,
// so the result is never empty: when every recipient is excluded the string
// degenerates to just the sender, which is exactly right for a 1:1 thread
// where the lone recipient was this device.
func Resolve(ctx context.Context, from, toCsv string, localNumbers []string, lookup ContactLookup) string {
	fromLoose := phone.Canonicalize(from).Loose

	localLoose := make(map[string]struct{}, len(localNumbers))
	for _, n := range localNumbers {
		localLoose[phone.Canonicalize(n).Loose] = struct{}{}
	}

	var b strings.Builder
	for _, to := range strings.Split(toCsv, Separator) {
		toLoose := phone.Canonicalize(to).Loose
		if to == "" || toLoose == fromLoose {
			continue
		}
		if _, own := localLoose[toLoose]; own {
			continue
		}
		if lookup != nil && strings.EqualFold(lookup.DisplayName(ctx, to), "me") {
			continue
		}
		b.WriteString(to)
		b.WriteString(Separator)
	}

	b.WriteString(from)
	return collapseSeparators(b.String())
}

// IsGroup reports whether a resolved participant string names more than one
// participant.
func IsGroup(participants string) bool {
	return strings.Contains(participants, Separator)
}

// IsSelfSender reports whether `from` is one of this device's own numbers.
// Self detection uses strict fingerprints: a sender is only "us" when every
// digit matches, country code included.
func IsSelfSender(from string, localNumbers []string) bool {
	fromStrict := phone.Canonicalize(from).Strict
	for _, n := range localNumbers {
		if phone.Canonicalize(n).Strict == fromStrict {
			return true
		}
	}
	return false
}

// collapseSeparators squashes runs of separator artifacts ("a, , b", doubled
// ", ") into single separators and trims any leading run.
func collapseSeparators(s string) string {
	for {
		collapsed := strings.ReplaceAll(s, Separator+Separator, Separator)
		collapsed = strings.ReplaceAll(collapsed, ", , ", Separator)
		if collapsed == s {
			break
		}
		s = collapsed
	}
	return strings.TrimPrefix(s, Separator)
}
