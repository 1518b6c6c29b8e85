package phone

import (
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the ISO region used when a number carries no country code.
const DefaultRegion = "US"

// FormatForDisplay renders raw in the national convention of its region
// ("(555) 123-4567"). Unparseable input is returned unchanged; display
// formatting never fails.
func FormatForDisplay(raw string) string {
	return formatForDisplay(raw, DefaultRegion)
}

// FormatForDisplayInRegion is FormatForDisplay with an explicit default region.
func FormatForDisplayInRegion(raw, region string) string {
	return formatForDisplay(raw, region)
}

func formatForDisplay(raw, region string) string {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
