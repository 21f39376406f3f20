package filter

import "time"

// Period is the stats grouping granularity (spec.md §4.6).
type Period int

const (
	PeriodNone Period = iota
	PeriodDay
	PeriodWeek
	PeriodMonth
	PeriodYear
)

// ParsePeriod accepts the single-letter --groupby values.
func ParsePeriod(s string) (Period, bool) {
	switch s {
	case "n", "none", "":
		return PeriodNone, true
	case "d", "day":
		return PeriodDay, true
	case "w", "week":
		return PeriodWeek, true
	case "m", "month":
		return PeriodMonth, true
	case "y", "year":
		return PeriodYear, true
	default:
		return 0, false
	}
}

// GroupKey returns the period-bucket label for ts, using UTC or local time
// per utc. Weeks are ISO weeks starting Monday.
func GroupKey(ts int64, p Period, utc bool) string {
	t := time.Unix(ts, 0)
	if utc {
		t = t.UTC()
	} else {
		t = t.Local()
	}
	switch p {
	case PeriodYear:
		return t.Format("2006")
	case PeriodMonth:
		return t.Format("2006-01")
	case PeriodWeek:
		year, week := t.ISOWeek()
		return itoa(int64(year)) + "-W" + pad2(int64(week))
	case PeriodDay:
		return t.Format("2006-01-02")
	default:
		return ""
	}
}
