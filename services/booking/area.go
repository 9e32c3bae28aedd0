package booking

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidZip = errors.New("zip code must be 5 digits")

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// ServiceArea decides whether a pickup ZIP is served.
type ServiceArea struct {
	Prefixes []string
}

type AreaCheck struct {
	Zip       string `json:"zip"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Check answers availability for zip. An empty prefix list serves everywhere.
func (a ServiceArea) Check(zip string) (*AreaCheck, error) {
	zip = strings.TrimSpace(zip)
	if !zipPattern.MatchString(zip) {
		return nil, ErrInvalidZip
	}
	out := &AreaCheck{Zip: zip, Available: a.serves(zip)}
	if out.Available {
		out.Message = "Great news! We serve your area."
	} else {
		out.Message = "Sorry, we don't serve your area yet."
	}
	return out, nil
}

func (a ServiceArea) serves(zip string) bool {
	if len(a.Prefixes) == 0 {
		return true
	}
	for _, p := range a.Prefixes {
		p = strings.TrimSpace(p)
		if p != "" && strings.HasPrefix(zip, p) {
			return true
		}
	}
	return false
}
