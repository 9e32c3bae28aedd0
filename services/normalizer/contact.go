package normalizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a phone number has no country prefix.
const DefaultRegion = "US"

// NormalizePhone formats raw as E.164 when it is a valid number for region,
// otherwise it returns the trimmed input unchanged.
func NormalizePhone(raw, region string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// SplitName splits a full name into first name and the remainder.
func SplitName(full string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
