package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate accepts the date grammar from spec.md §6: absolute ISO-8601,
// absolute Unix seconds, or a relative offset (an unsigned integer followed
// by a single-letter unit y/m/w/d/h/s, concatenable like "1w3d", with
// optional spaces). now is the reference point for relative dates, and for
// "today at midnight" style absolute dates when utc selects the zone used
// to interpret them.
func ParseDate(s string, now time.Time, utc bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	if t, ok := parseRelative(s, now); ok {
		return t, nil
	}
	loc := time.Local
	if utc {
		loc = time.UTC
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseRelative parses a concatenation of <uint><unit> terms, interpreted as
// an offset into the past from now. Recognised units: y (365d), m (30d),
// w, d, h, s.
func parseRelative(s string, now time.Time) (time.Time, bool) {
	var total time.Duration
	matchedAny := false
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return time.Time{}, false
		}
		s = s[i:]
		s = strings.TrimLeft(s, " ")
		if len(s) == 0 {
			return time.Time{}, false
		}
		unit := s[0]
		s = s[1:]
		s = strings.TrimLeft(s, " ")
		switch unit {
		case 's':
			total += time.Duration(n) * time.Second
		case 'h':
			total += time.Duration(n) * time.Hour
		case 'd':
			total += time.Duration(n) * 24 * time.Hour
		case 'w':
			total += time.Duration(n) * 7 * 24 * time.Hour
		case 'm':
			total += time.Duration(n) * 30 * 24 * time.Hour
		case 'y':
			total += time.Duration(n) * 365 * 24 * time.Hour
		default:
			return time.Time{}, false
		}
		matchedAny = true
	}
	if !matchedAny {
		return time.Time{}, false
	}
	return now.Add(-total), true
}
