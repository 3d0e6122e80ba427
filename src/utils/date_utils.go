package utils

import "time"

const DefaultDateFormat = "2006-01-02"

// ParseDate parses an ISO 8601 date string. Transaction dates are only used
// for chronological ordering, so an unparseable date maps to the zero time
// and sorts first instead of failing the whole ledger walk.
func ParseDate(dateStr string) time.Time {
	t, err := time.Parse(DefaultDateFormat, dateStr)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PeriodString formats a year/month pair as YYYY-MM, the key used to detect
// duplicate income entries.
func PeriodString(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
