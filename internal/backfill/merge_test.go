package backfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

var mergeSpec = types.NewBarSpec(1, types.UnitMinute)

func barAt(t time.Time, price float64) types.Bar {
	return types.NewBar(mergeSpec, price, price, price, price, 1, t)
}

func singleRange(start, end time.Time) []ChunkRange {
	return []ChunkRange{{StartTime: start, EndTime: end, SequenceNumber: 0}}
}

// TestMerge_DedupIdempotence tests that merging a doubled input equals
// merging the input once
func TestMerge_DedupIdempotence(t *testing.T) {
	m := NewMergeFilter(nil)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	bars := []types.Bar{
		barAt(start.Add(1*time.Minute), 1.1),
		barAt(start.Add(2*time.Minute), 1.2),
		barAt(start.Add(3*time.Minute), 1.3),
	}
	ranges := singleRange(start, start.Add(time.Hour))

	once, _ := m.Merge(bars, ranges)
	doubled, stats := m.Merge(append(append([]types.Bar{}, bars...), bars...), ranges)

	assert.Equal(t, once, doubled)
	assert.Equal(t, 3, stats.Duplicates)
}

// TestMerge_BoundaryTimestampKeptOnce tests that a bar shared by two
// adjacent chunks appears exactly once in the output
func TestMerge_BoundaryTimestampKeptOnce(t *testing.T) {
	m := NewMergeFilter(nil)
	boundary := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	ranges := []ChunkRange{
		{StartTime: boundary.Add(-time.Hour), EndTime: boundary, SequenceNumber: 0},
		{StartTime: boundary, EndTime: boundary.Add(time.Hour), SequenceNumber: 1},
	}

	// Both chunks returned the boundary bar.
	raw := []types.Bar{
		barAt(boundary.Add(-time.Minute), 1.0),
		barAt(boundary, 1.1),
		barAt(boundary, 1.1),
		barAt(boundary.Add(time.Minute), 1.2),
	}

	merged, stats := m.Merge(raw, ranges)
	require.Len(t, merged, 3)
	assert.Equal(t, 1, stats.Duplicates)

	count := 0
	for _, b := range merged {
		if b.EventTime.Equal(boundary) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// TestMerge_DropsBarsOutsideEveryRange tests out-of-range filtering with
// inclusive bounds
func TestMerge_DropsBarsOutsideEveryRange(t *testing.T) {
	m := NewMergeFilter(nil)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	raw := []types.Bar{
		barAt(start.Add(-time.Minute), 0.9), // before the window
		barAt(start, 1.0),                   // inclusive start
		barAt(start.Add(30*time.Minute), 1.1),
		barAt(end, 1.2),                  // inclusive end
		barAt(end.Add(time.Minute), 1.3), // after the window
	}

	merged, stats := m.Merge(raw, singleRange(start, end))
	require.Len(t, merged, 3)
	assert.Equal(t, 2, stats.OutOfRange)
	assert.Equal(t, 0, stats.Duplicates)
	assert.Equal(t, 3, stats.Kept)
}

// TestMerge_SortsAscendingByEventTime tests that arrival order does not
// leak into the output
func TestMerge_SortsAscendingByEventTime(t *testing.T) {
	m := NewMergeFilter(nil)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	raw := []types.Bar{
		barAt(start.Add(5*time.Minute), 1.5),
		barAt(start.Add(1*time.Minute), 1.1),
		barAt(start.Add(3*time.Minute), 1.3),
	}

	merged, _ := m.Merge(raw, singleRange(start, start.Add(time.Hour)))
	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.True(t, merged[i-1].EventTime.Before(merged[i].EventTime))
	}
}

// TestMerge_EmptyInput tests the degenerate case
func TestMerge_EmptyInput(t *testing.T) {
	m := NewMergeFilter(nil)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	merged, stats := m.Merge(nil, singleRange(start, start.Add(time.Hour)))
	assert.Empty(t, merged)
	assert.Equal(t, MergeStats{}, stats)
}
