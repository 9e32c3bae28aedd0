package normalizer

import (
	"regexp"
	"strings"

	"junkbutler/models"
)

var (
	zipRE          = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)
	stateRE        = regexp.MustCompile(`\b([A-Z]{2})\b`)
	stateBeforeZip = regexp.MustCompile(`\b([A-Z]{2})\s+\d{5}(?:-\d{4})?\b`)
)

// DecomposeAddress splits a "street, city, ST zip" style location into parts.
// Anything it cannot find is left empty.
func DecomposeAddress(location string) models.Address {
	var addr models.Address

	var parts []string
	for _, p := range strings.Split(location, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return addr
	}
	addr.Street = parts[0]

	for i := len(parts) - 1; i >= 0; i-- {
		if m := zipRE.FindStringSubmatch(parts[i]); m != nil {
			addr.Zip = m[1]
			break
		}
	}

	if len(parts) == 1 {
		if m := stateBeforeZip.FindStringSubmatch(parts[0]); m != nil {
			addr.State = m[1]
		}
		return addr
	}

	cityIdx := -1
	for i := len(parts) - 1; i >= 1; i-- {
		rest := strings.TrimSpace(zipRE.ReplaceAllString(parts[i], ""))
		m := stateRE.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		addr.State = m[1]
		if rest == m[1] {
			cityIdx = i - 1
		}
		break
	}

	switch {
	case cityIdx == 0:
		// "Springfield, IL 62701": no street line.
		addr.City = parts[0]
		addr.Street = ""
	case cityIdx > 0:
		addr.City = parts[cityIdx]
	default:
		addr.City = stripStateAndZip(parts[1], addr.State)
	}
	return addr
}

func stripStateAndZip(fragment, state string) string {
	out := zipRE.ReplaceAllString(fragment, "")
	if state != "" {
		out = regexp.MustCompile(`\b`+regexp.QuoteMeta(state)+`\b`).ReplaceAllString(out, "")
	}
	return strings.Join(strings.Fields(out), " ")
}
