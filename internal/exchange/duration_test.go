package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatDuration_DaysAtOrAbove24Hours tests the whole-day format
func TestFormatDuration_DaysAtOrAbove24Hours(t *testing.T) {
	assert.Equal(t, "1 D", FormatDuration(24))
	assert.Equal(t, "2 D", FormatDuration(48))
	// Partial days round up: 113.4h -> 5 days
	assert.Equal(t, "5 D", FormatDuration(113.4))
	assert.Equal(t, "7 D", FormatDuration(7*24))
}

// TestFormatDuration_SecondsBelow24Hours tests the seconds format
func TestFormatDuration_SecondsBelow24Hours(t *testing.T) {
	assert.Equal(t, "3600 S", FormatDuration(1))
	assert.Equal(t, "28800 S", FormatDuration(8))
	assert.Equal(t, "82800 S", FormatDuration(23))
}

// TestFormatDuration_ThirtySecondFloor tests the protocol minimum
func TestFormatDuration_ThirtySecondFloor(t *testing.T) {
	assert.Equal(t, "30 S", FormatDuration(0))
	assert.Equal(t, "30 S", FormatDuration(0.001))
	assert.Equal(t, "36 S", FormatDuration(0.01))
}
