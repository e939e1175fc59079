package normalize

import (
	"encoding/json"
	"strings"
)

// Weekdays in display order. Store locators list Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var dayAliases = map[string]string{
	"sun": "Sun", "sunday": "Sun",
	"mon": "Mon", "monday": "Mon",
	"tue": "Tue", "tues": "Tue", "tuesday": "Tue",
	"wed": "Wed", "wednesday": "Wed",
	"thu": "Thu", "thur": "Thu", "thurs": "Thu", "thursday": "Thu",
	"fri": "Fri", "friday": "Fri",
	"sat": "Sat", "saturday": "Sat",
}

// maxHoursLines bounds how many lines after a day token belong to it.
const maxHoursLines = 3

// WeeklyHours maps a short day name ("Mon") to its opening-hours text.
// Days that were not found are absent.
type WeeklyHours map[string]string

// ParseWeeklyHours scans line-oriented text for day tokens ending in ":"
// ("Mon:") and joins the non-empty lines that follow, up to the next day
// token, a blank line or another "label:" line.
func ParseWeeklyHours(text string) WeeklyHours {
	hours := WeeklyHours{}
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		day, rest, ok := dayToken(line)
		if !ok {
			continue
		}

		var parts []string
		if rest != "" {
			parts = append(parts, rest)
		}
		for j := i + 1; j < len(lines) && j <= i+maxHoursLines; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.HasSuffix(next, ":") {
				break
			}
			if _, _, isDay := dayToken(next); isDay {
				break
			}
			parts = append(parts, next)
		}

		if len(parts) > 0 {
			hours[day] = strings.Join(parts, " ")
		}
	}

	return hours
}

// dayToken recognises "Mon:" and the inline form "Mon: 10am - 9pm".
func dayToken(line string) (day, rest string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	day, ok = dayAliases[strings.ToLower(strings.TrimSpace(line[:idx]))]
	if !ok {
		return "", "", false
	}
	return day, strings.TrimSpace(line[idx+1:]), true
}

// Ordered returns the known days in week order.
func (h WeeklyHours) Ordered() []string {
	days := make([]string, 0, len(h))
	for _, d := range Weekdays {
		if _, ok := h[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON keeps the week order instead of alphabetical map order.
func (h WeeklyHours) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, d := range h.Ordered() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(d)
		v, err := json.Marshal(h[d])
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
