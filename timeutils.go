package transitapi

import "time"

// responseTimestamp formats t the way upstream transit feeds do,
// ISO 8601 with milliseconds in local time.
func responseTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000-07:00")
}
