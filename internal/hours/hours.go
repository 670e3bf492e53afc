// Package hours converts logged seconds into display hours.
package hours

import (
	"math"
	"strconv"
)

const secondsPerHour = 3600

// SecondsToHours converts seconds to hours rounded to two decimal places,
// rounding half away from zero.
func SecondsToHours(seconds int64) float64 {
	return math.Round(float64(seconds)/secondsPerHour*100) / 100
}

// FormatHours renders hours with an "h" suffix and no forced decimal
// padding, e.g. "0h", "0.25h", "12.5h".
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64) + "h"
}
