package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for pickup dates.
const DateLayout = "2006-01-02"

var nativeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Monday, January 2, 2006",
	"Monday January 2, 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var (
	monthDayRE = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	todayRE    = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowRE = regexp.MustCompile(`(?i)\btomorrow\b`)
	nextRE     = regexp.MustCompile(`(?i)\bnext\b`)
	weekdayRE  = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

var (
	leadingFiller  = map[string]bool{"on": true, "at": true, "around": true, "by": true}
	trailingFiller = map[string]bool{"on": true, "at": true, "around": true, "by": true, "in": true, "the": true, "from": true}
)

// ExtractDate pulls a calendar date out of a free-text pickup request.
// Relative phrases resolve against now, and the result sits at noon in
// now's location.
func ExtractDate(text string, now time.Time) (time.Time, bool) {
	rest := text
	if _, matched, ok := ExtractTimeSlot(text); ok {
		rest = strings.Replace(rest, matched, " ", 1)
	} else if i := strings.Index(strings.ToLower(rest), " at "); i >= 0 {
		rest = rest[:i]
	}
	rest = cleanDateText(rest)
	if rest == "" {
		return time.Time{}, false
	}

	loc := now.Location()
	for _, parse := range []func(string, time.Time) (time.Time, bool){parseNative, parseMonthDay, parseRelative} {
		if t, ok := parse(rest, now); ok {
			return atNoon(t, loc), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func cleanDateText(s string) string {
	fields := strings.Fields(s)
	for len(fields) > 0 && leadingFiller[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	for len(fields) > 0 && trailingFiller[strings.ToLower(strings.Trim(fields[len(fields)-1], ",.;"))] {
		fields = fields[:len(fields)-1]
	}
	return strings.Trim(strings.Join(fields, " "), " ,.;")
}

func parseNative(s string, now time.Time) (time.Time, bool) {
	for _, layout := range nativeLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseMonthDay(s string, now time.Time) (time.Time, bool) {
	m := monthDayRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month := months[strings.ToLower(m[1])[:3]]
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}

	year := now.Year()
	explicitYear := m[3] != ""
	if explicitYear {
		if year, err = strconv.Atoi(m[3]); err != nil {
			return time.Time{}, false
		}
	}

	t := time.Date(year, month, day, 12, 0, 0, 0, now.Location())
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	if !explicitYear && t.Before(startOfDay(now)) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

func parseRelative(s string, now time.Time) (time.Time, bool) {
	switch {
	case todayRE.MatchString(s):
		return now, true
	case tomorrowRE.MatchString(s):
		return now.AddDate(0, 0, 1), true
	case nextRE.MatchString(s):
		return now.AddDate(0, 0, 7), true
	}
	if m := weekdayRE.FindStringSubmatch(s); m != nil {
		target := weekdays[strings.ToLower(m[1])]
		days := (int(target) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days), true
	}
	return time.Time{}, false
}

func atNoon(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
