package utils

import "time"

// Reconciliation reports are issued in Moscow time, so stored batch timestamps
// follow the same clock.
var moscow = time.FixedZone("MSK", 3*60*60)

const TimestampFormat = "2006-01-02 15:04:05"

// MoscowTimestamp returns the current time formatted in Moscow time.
func MoscowTimestamp() string {
	return time.Now().In(moscow).Format(TimestampFormat)
}
