package detection

import (
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
)

const minutesPerDay = 24 * 60

// anchor is the shared reference date both punches are placed on.
var anchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WorkedHours returns the elapsed hours between the punches. A clock-out that is not
// after the clock-in is taken to be on the following day, so equal punches give 24h.
func WorkedHours(in, out attendance.Clock) float64 {
	start := in.On(anchor)
	end := out.On(anchor)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours()
}

// IsNightWork reports whether the shift [in, out) overlaps the night window
// [startHour, endHour). Both intervals may wrap past midnight.
func IsNightWork(in, out attendance.Clock, startHour, endHour int) bool {
	inM, outM := in.Minutes(), out.Minutes()
	if outM <= inM {
		outM += minutesPerDay
	}

	ns, ne := startHour*60, endHour*60
	if ne <= ns {
		ne += minutesPerDay
	}

	// The shift spans at most [0, 2880), so the window at the previous, same
	// and next day covers every position where the two could meet.
	for _, offset := range []int{-minutesPerDay, 0, minutesPerDay} {
		if inM < ne+offset && outM > ns+offset {
			return true
		}
	}
	return false
}
