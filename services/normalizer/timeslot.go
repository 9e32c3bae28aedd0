package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

// TimeSlot is one of the five two-hour pickup windows.
type TimeSlot string

const (
	SlotEightToTen TimeSlot = "8:00 AM - 10:00 AM"
	SlotTenToNoon  TimeSlot = "10:00 AM - 12:00 PM"
	SlotNoonToTwo  TimeSlot = "12:00 PM - 2:00 PM"
	SlotTwoToFour  TimeSlot = "2:00 PM - 4:00 PM"
	SlotFourToSix  TimeSlot = "4:00 PM - 6:00 PM"
)

var allSlots = []TimeSlot{SlotEightToTen, SlotTenToNoon, SlotNoonToTwo, SlotTwoToFour, SlotFourToSix}

// Slots lists the pickup windows in chronological order.
func Slots() []TimeSlot {
	return append([]TimeSlot(nil), allSlots...)
}

func IsValidSlot(s string) bool {
	for _, slot := range allSlots {
		if string(slot) == s {
			return true
		}
	}
	return false
}

var (
	timeRangeRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?::\d{2})?\s*(am|pm)?\s*(?:-|–|to|until)\s*(\d{1,2})(?::\d{2})?\s*(am|pm)\b`)
	betweenRE   = regexp.MustCompile(`(?i)\bbetween\s+(\d{1,2})(?::\d{2})?\s*(am|pm)?\s+and\s+(\d{1,2})(?::\d{2})?\s*(am|pm)\b`)
	clockRE     = regexp.MustCompile(`(?i)\b(\d{1,2})(?::\d{2})?\s*(am|pm)\b`)
	noonRE      = regexp.MustCompile(`(?i)\b(?:at\s+)?noon\b`)
	partOfDayRE = regexp.MustCompile(`(?i)\b(?:in\s+the\s+)?(morning|afternoon|evening)\b`)
)

var partOfDaySlots = map[string]TimeSlot{
	"morning":   SlotEightToTen,
	"afternoon": SlotNoonToTwo,
	"evening":   SlotFourToSix,
}

// SlotForHour buckets a 24-hour clock hour into its window. Hours outside
// the service day snap to the closest window.
func SlotForHour(hour int) TimeSlot {
	switch {
	case hour < 10:
		return SlotEightToTen
	case hour < 12:
		return SlotTenToNoon
	case hour < 14:
		return SlotNoonToTwo
	case hour < 16:
		return SlotTwoToFour
	default:
		return SlotFourToSix
	}
}

// ExtractTimeSlot finds the first recognizable time phrase in text and
// returns its window along with the matched substring.
func ExtractTimeSlot(text string) (TimeSlot, string, bool) {
	for _, re := range []*regexp.Regexp{betweenRE, timeRangeRE} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if hour, ok := rangeStartHour(m[1], m[2], m[3], m[4]); ok {
				return SlotForHour(hour), m[0], true
			}
		}
	}

	for _, m := range clockRE.FindAllStringSubmatch(text, -1) {
		if hour, ok := militaryHour(m[1], m[2]); ok {
			return SlotForHour(hour), m[0], true
		}
	}

	if m := noonRE.FindString(text); m != "" {
		return SlotNoonToTwo, m, true
	}

	if m := partOfDayRE.FindStringSubmatch(text); m != nil {
		return partOfDaySlots[strings.ToLower(m[1])], m[0], true
	}
	return "", "", false
}

// rangeStartHour resolves the start of "9-11am" style ranges. A start without
// its own meridiem borrows the end's, unless that would put it after the end.
func rangeStartHour(startH, startMer, endH, endMer string) (int, bool) {
	end, ok := militaryHour(endH, endMer)
	if !ok {
		return 0, false
	}
	if startMer != "" {
		return militaryHour(startH, startMer)
	}
	start, ok := militaryHour(startH, endMer)
	if !ok {
		return 0, false
	}
	if start > end {
		start, ok = militaryHour(startH, "am")
	}
	return start, ok
}

func militaryHour(hourText, meridiem string) (int, bool) {
	h, err := strconv.Atoi(hourText)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	h %= 12
	if strings.EqualFold(meridiem, "pm") {
		h += 12
	}
	return h, true
}
