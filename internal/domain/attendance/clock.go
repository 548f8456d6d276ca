package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a wall-clock time of day with second precision.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

func NewClock(hour, minute, second int) Clock {
	return Clock{Hour: hour, Minute: minute, Second: second}
}

// ParseClock accepts H:MM, HH:MM and HH:MM:SS. Hours from 24 to 47 are folded
// back onto the same day, since timeclock exports write after-midnight punches as 25:30.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = n
	}

	h, m, sec := nums[0], nums[1], nums[2]
	if h >= 24 && h < 48 {
		h -= 24
	}
	if h > 23 || m > 59 || sec > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m, Second: sec}, nil
}

// FromMicroseconds builds a Clock from microseconds since midnight, the
// representation PostgreSQL uses for TIME columns.
func FromMicroseconds(us int64) Clock {
	secs := int(us / 1_000_000)
	return Clock{Hour: secs / 3600, Minute: secs % 3600 / 60, Second: secs % 60}
}

func (c Clock) Microseconds() int64 {
	return int64(c.Seconds()) * 1_000_000
}

// Seconds returns seconds since midnight.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Minutes returns whole minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On anchors the clock to the calendar date of d.
func (c Clock) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, c.Second, 0, d.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}
