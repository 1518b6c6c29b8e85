package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==================== Canonicalize Tests ====================

func TestCanonicalize_StripsFormatting(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLoose  string
		wantStrict string
	}{
		{
			name:       "plain seven digit number",
			raw:        "1234567",
			wantLoose:  "1234567",
			wantStrict: "1234567",
		},
		{
			name:       "ten digit number keeps last seven loosely",
			raw:        "5551234567",
			wantLoose:  "1234567",
			wantStrict: "5551234567",
		},
		{
			name:       "punctuation and spaces ignored",
			raw:        "(555) 123-4567",
			wantLoose:  "1234567",
			wantStrict: "5551234567",
		},
		{
			name:       "country code prefix ignored loosely",
			raw:        "+1 555 123 4567",
			wantLoose:  "1234567",
			wantStrict: "15551234567",
		},
		{
			name:       "short number keeps everything",
			raw:        "411",
			wantLoose:  "411",
			wantStrict: "411",
		},
		{
			name:       "empty input yields empty keys",
			raw:        "",
			wantLoose:  "",
			wantStrict: "",
		},
		{
			name:       "digit-free input yields empty keys",
			raw:        "no digits here",
			wantLoose:  "",
			wantStrict: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := Canonicalize(tt.raw)
			assert.Equal(t, tt.wantLoose, fp.Loose)
			assert.Equal(t, tt.wantStrict, fp.Strict)
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{"+1 (555) 123-4567", "5551234567", "", "07700 900123"}
	for _, raw := range inputs {
		first := Canonicalize(raw)
		second := Canonicalize(first.Strict)
		assert.Equal(t, first, second, "canonicalizing the strict key must be a fixed point for %q", raw)
	}
}

func TestSameLoose_CountryCodeTolerant(t *testing.T) {
	assert.True(t, SameLoose("5551234567", "+1-555-123-4567"))
	assert.True(t, SameLoose("15551234567", "555.123.4567"))
	assert.False(t, SameLoose("5551234567", "5559876543"))
}

func TestSameLoose_EmptyOnlyMatchesEmpty(t *testing.T) {
	assert.True(t, SameLoose("", "---"))
	assert.False(t, SameLoose("", "5551234567"))
}

func TestSameStrict_ExactDigitsOnly(t *testing.T) {
	assert.True(t, SameStrict("(555) 123-4567", "5551234567"))
	assert.False(t, SameStrict("15551234567", "5551234567"), "strict keys include the country code")
}

// ==================== FormatForDisplay Tests ====================

func TestFormatForDisplay_NationalFormat(t *testing.T) {
	assert.Equal(t, "(202) 555-0123", FormatForDisplay("+12025550123"))
}

func TestFormatForDisplay_UnparseablePassthrough(t *testing.T) {
	assert.Equal(t, "not a number", FormatForDisplay("not a number"))
	assert.Equal(t, "", FormatForDisplay(""))
}
