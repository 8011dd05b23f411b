package exchange

import (
	"fmt"
	"math"
)

const minDurationSeconds = 30

// FormatDuration renders a request span in the upstream duration-string
// protocol: whole days ("5 D") at 24 hours and above, otherwise seconds
// ("3600 S") with a 30-second floor. The provider does not accept an hours
// unit.
func FormatDuration(hours float64) string {
	if hours >= 24 {
		days := int(math.Ceil(hours / 24))
		return fmt.Sprintf("%d D", days)
	}
	seconds := int(math.Round(hours * 3600))
	if seconds < minDurationSeconds {
		seconds = minDurationSeconds
	}
	return fmt.Sprintf("%d S", seconds)
}
