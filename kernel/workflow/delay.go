package workflow

import "time"

const Day = 24 * time.Hour

// Delay is the time elapsed since createdAt. It never goes negative.
func Delay(createdAt time.Time, now time.Time) time.Duration {
	if createdAt.IsZero() || now.Before(createdAt) {
		return 0
	}
	return now.Sub(createdAt)
}

// DaysCeil rounds d up to whole days; negative durations round toward zero,
// so one and a half days overdue is -1.
func DaysCeil(d time.Duration) int {
	days := d / Day
	if d%Day > 0 {
		days++
	}
	return int(days)
}
