package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime renders a duration in seconds as H:MM:SS with unpadded hours.
// Negative durations are clamped to zero; these are operator-facing reports,
// not ledgers.
func FormatTime(durationSec int) string {
	if durationSec < 0 {
		durationSec = 0
	}
	hours := durationSec / 3600
	minutes := (durationSec % 3600) / 60
	seconds := durationSec % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// ParseTime converts an H:MM:SS string back into total seconds.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// FormatPace renders the average pace as M'SS"/km. A zero distance substitutes
// a 1 km denominator instead of failing, matching the legacy reports.
func FormatPace(durationSec int, distanceKM float64) string {
	if durationSec < 0 {
		durationSec = 0
	}
	if distanceKM <= 0 {
		distanceKM = 1
	}
	paceMin := float64(durationSec) / 60 / distanceKM
	wholeMin := int(paceMin)
	paceSec := int(math.Round((paceMin - float64(wholeMin)) * 60))
	if paceSec == 60 {
		wholeMin++
		paceSec = 0
	}
	return fmt.Sprintf("%d'%02d\"/km", wholeMin, paceSec)
}
