// Package timeutil holds the time formats shared by the transaction logs and
// the attendance records. Everything uses the process's local wall clock.
package timeutil

import (
	"time"
)

// StampLayout is the layout of transaction-log timestamps. Fixed width, so
// lexical order equals chronological order.
const StampLayout = "2006-01-02T15:04:05.000"

// DateLayout is the expected shape of attendance dates.
const DateLayout = "2006-01-02"

// Clock returns the current time. Services take a Clock so tests can pin it.
type Clock func() time.Time

// Now returns the current local time.
func Now() time.Time {
	return time.Now().Local()
}

// Stamp formats t in local time using StampLayout.
func Stamp(t time.Time) string {
	return t.Local().Format(StampLayout)
}

// Today returns the local date in DateLayout.
func Today() string {
	return Now().Format(DateLayout)
}
