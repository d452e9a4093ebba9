package datex

import "time"

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock reads the local wall clock.
func SystemClock() time.Time { return time.Now() }

// Today renders the local calendar date of c in canonical form.
func Today(c Clock) string {
	return c().Local().Format(Layout)
}

// FileStamp renders c as YYYY-MM-DD-HHMMSS for artifact names.
func FileStamp(c Clock) string {
	return c().Local().Format("2006-01-02-150405")
}
