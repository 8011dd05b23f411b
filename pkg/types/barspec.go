package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BarUnit is the time unit of a bar's window.
type BarUnit string

const (
	UnitMinute BarUnit = "MINUTE"
	UnitHour   BarUnit = "HOUR"
	UnitDay    BarUnit = "DAY"
)

// PriceType identifies which price stream a bar series is built from.
type PriceType string

const (
	PriceMid  PriceType = "MID"
	PriceBid  PriceType = "BID"
	PriceAsk  PriceType = "ASK"
	PriceLast PriceType = "LAST"
)

// AggregationSource says whether bars came from the upstream feed or were
// aggregated locally.
type AggregationSource string

const (
	SourceExternal AggregationSource = "EXTERNAL"
	SourceInternal AggregationSource = "INTERNAL"
)

// BarSpec describes one bar series: granularity (step + unit), price type
// and aggregation source. Two specs are equal iff all fields match, so the
// struct is comparable by design.
type BarSpec struct {
	Step      int
	Unit      BarUnit
	PriceType PriceType
	Source    AggregationSource
}

// NewBarSpec creates a bar spec with the given granularity, defaulting to
// mid prices from the external feed.
func NewBarSpec(step int, unit BarUnit) BarSpec {
	return BarSpec{
		Step:      step,
		Unit:      unit,
		PriceType: PriceMid,
		Source:    SourceExternal,
	}
}

// ParseBarSpec parses strings like "15-MINUTE", "1-HOUR-MID" or
// "15-MINUTE-MID-EXTERNAL" into a BarSpec.
func ParseBarSpec(s string) (BarSpec, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "-")
	if len(parts) < 2 {
		return BarSpec{}, fmt.Errorf("invalid bar spec %q: expected <step>-<unit>[-<price>[-<source>]]", s)
	}

	step, err := strconv.Atoi(parts[0])
	if err != nil || step <= 0 {
		return BarSpec{}, fmt.Errorf("invalid bar spec %q: bad step %q", s, parts[0])
	}

	var unit BarUnit
	switch parts[1] {
	case "MINUTE", "MIN", "M":
		unit = UnitMinute
	case "HOUR", "H":
		unit = UnitHour
	case "DAY", "D":
		unit = UnitDay
	default:
		return BarSpec{}, fmt.Errorf("invalid bar spec %q: unknown unit %q", s, parts[1])
	}

	spec := NewBarSpec(step, unit)
	if len(parts) >= 3 {
		spec.PriceType = PriceType(parts[2])
	}
	if len(parts) >= 4 {
		spec.Source = AggregationSource(parts[3])
	}
	return spec, nil
}

// String renders the spec in the canonical "<step>-<unit>-<price>-<source>"
// form.
func (s BarSpec) String() string {
	return fmt.Sprintf("%d-%s-%s-%s", s.Step, s.Unit, s.PriceType, s.Source)
}

// Minutes returns the bar window in whole minutes, or 0 when the unit is
// not recognized (callers decide the fallback and log it).
func (s BarSpec) Minutes() int {
	switch s.Unit {
	case UnitMinute:
		return s.Step
	case UnitHour:
		return s.Step * 60
	case UnitDay:
		return s.Step * 1440
	default:
		return 0
	}
}

// Duration returns the bar window as a time.Duration.
func (s BarSpec) Duration() time.Duration {
	return time.Duration(s.Minutes()) * time.Minute
}
