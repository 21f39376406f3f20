package filter

import "time"

// Range bounds a scan by Unix timestamp, inclusive. A side whose
// HasFrom/HasTo flag is false is unbounded.
type Range struct {
	From int64
	To   int64

	HasFrom bool
	HasTo   bool
}

// InRange reports whether ts satisfies the range.
func (r Range) InRange(ts int64) bool {
	if r.HasFrom && ts < r.From {
		return false
	}
	if r.HasTo && ts > r.To {
		return false
	}
	return true
}

// Spec bundles the filter parameters every report builder shares
// (spec.md §4.6): a date range, an optional name matcher, the show mask,
// and the --first/--last row caps.
type Spec struct {
	Range     Range
	Names     *NameMatcher
	Show      Show
	First     int  // 0 = unbounded
	Last      int  // 0 = unbounded
	StartTime bool // show start ts instead of end ts in `log`
	UTC       bool
}

// FormatDuration renders seconds as H:MM:SS, dropping leading zero
// components, matching the original tool's default style (its "HMSFixed"
// variant is FormatDurationFixed below).
func FormatDuration(secs int64) string {
	if secs < 0 {
		return "?"
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0:
		return itoa(h) + ":" + pad2(m) + ":" + pad2(s)
	case m > 0:
		return itoa(m) + ":" + pad2(s)
	default:
		return itoa(s)
	}
}

// FormatDurationFixed always renders H:MM:SS, even for sub-minute values.
func FormatDurationFixed(secs int64) string {
	if secs < 0 {
		return "?"
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return itoa(h) + ":" + pad2(m) + ":" + pad2(s)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func pad2(n int64) string {
	s := itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// FormatTime renders a Unix timestamp using the given zone.
func FormatTime(ts int64, utc bool) string {
	t := time.Unix(ts, 0)
	if utc {
		t = t.UTC()
	} else {
		t = t.Local()
	}
	return t.Format("2006-01-02 15:04:05")
}
