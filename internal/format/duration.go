package format

import (
	"strconv"
	"time"
)

// Now is rendered in place of a zero duration.
const Now = "now"

type unit struct {
	letter    string
	seconds   float64
	fractions bool
}

// Ascending; the largest unit whose threshold is met wins.
var units = []unit{
	{letter: "s", seconds: 1},
	{letter: "m", seconds: 60},
	{letter: "h", seconds: 3600, fractions: true},
	{letter: "d", seconds: 86400, fractions: true},
	{letter: "M", seconds: 86400 * 30, fractions: true},
	{letter: "y", seconds: 86400 * 30 * 12, fractions: true},
}

// HumanizeDuration renders seconds using the largest fitting unit. When
// absolute is false, seconds is a unix timestamp and the elapsed time since
// then (relative to now) is rendered instead.
func HumanizeDuration(seconds float64, absolute bool, now time.Time) string {
	if !absolute {
		seconds = float64(now.Unix()) - seconds
	}
	if seconds <= 0 {
		return Now
	}

	picked := units[0]
	for _, u := range units[1:] {
		if seconds < u.seconds {
			break
		}
		picked = u
	}

	value := seconds / picked.seconds
	if picked.fractions {
		return strconv.FormatFloat(value, 'f', 1, 64) + picked.letter
	}
	return strconv.FormatInt(int64(value), 10) + picked.letter
}
