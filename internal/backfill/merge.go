package backfill

import (
	"sort"
	"time"

	"github.com/ducminhle1904/forex-warmup-bot/internal/logger"
	"github.com/ducminhle1904/forex-warmup-bot/internal/monitoring"
	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// MergeStats reports what the merge filter removed. Counts are diagnostic
// only; zero removals produce identical output to the raw input sorted.
type MergeStats struct {
	Duplicates int
	OutOfRange int
	Kept       int
}

// MergeFilter deduplicates fetched bars and discards bars outside every
// requested chunk window.
type MergeFilter struct {
	log *logger.Logger
}

// NewMergeFilter creates a merge filter. The logger may be nil.
func NewMergeFilter(log *logger.Logger) *MergeFilter {
	return &MergeFilter{log: log}
}

// Merge walks raw bars in arrival order, drops duplicates by exact event
// time, drops bars whose event time falls inside no chunk range (bounds
// inclusive), and returns the survivors sorted ascending by event time.
func (m *MergeFilter) Merge(raw []types.Bar, ranges []ChunkRange) ([]types.Bar, MergeStats) {
	var stats MergeStats

	seen := make(map[int64]struct{}, len(raw))
	kept := make([]types.Bar, 0, len(raw))

	for _, bar := range raw {
		key := bar.EventTime.UnixNano()
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		if !inAnyRange(bar.EventTime, ranges) {
			stats.OutOfRange++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, bar)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].EventTime.Before(kept[j].EventTime)
	})

	stats.Kept = len(kept)
	monitoring.RecordMergeRemovals(stats.Duplicates, stats.OutOfRange)

	if m.log != nil && (stats.Duplicates > 0 || stats.OutOfRange > 0) {
		m.log.Info("Merge filter removed %d duplicate and %d out-of-range bars, kept %d",
			stats.Duplicates, stats.OutOfRange, stats.Kept)
	}

	return kept, stats
}

func inAnyRange(t time.Time, ranges []ChunkRange) bool {
	for _, r := range ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}
