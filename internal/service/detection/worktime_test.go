package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		in, out string
		want    float64
	}{
		{"09:00", "17:00", 8.0},
		{"22:00", "02:00", 4.0},
		{"10:00", "10:00", 24.0},
		{"09:15", "18:45", 9.5},
		{"23:59:30", "00:00:00", 1.0 / 120},
	}
	for _, tt := range tests {
		t.Run(tt.in+"-"+tt.out, func(t *testing.T) {
			assert.InDelta(t, tt.want, WorkedHours(*clock(t, tt.in), *clock(t, tt.out)), 1e-9)
		})
	}
}

func TestIsNightWork(t *testing.T) {
	tests := []struct {
		in, out    string
		start, end int
		want       bool
	}{
		{"18:00", "02:00", 22, 5, true},
		{"09:00", "17:00", 22, 5, false},
		{"23:00", "01:00", 22, 5, true},
		{"01:00", "03:00", 22, 5, true},
		{"05:00", "22:00", 22, 5, false},
		{"04:59", "09:00", 22, 5, true},
		{"21:00", "22:00", 22, 5, false},
		{"21:00", "22:01", 22, 5, true},
		// non-wrapping window
		{"09:00", "17:00", 0, 6, false},
		{"23:00", "01:00", 0, 6, true},
		{"03:00", "04:00", 0, 6, true},
		// equal bounds cover the whole day
		{"12:00", "13:00", 22, 22, true},
	}
	for _, tt := range tests {
		t.Run(tt.in+"-"+tt.out, func(t *testing.T) {
			got := IsNightWork(*clock(t, tt.in), *clock(t, tt.out), tt.start, tt.end)
			assert.Equal(t, tt.want, got)
		})
	}
}
