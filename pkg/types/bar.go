package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single OHLCV record for a fixed time window. Bars are treated
// as immutable values once built; EventTime is the close of the window and
// InitTime records when the bar was constructed.
type Bar struct {
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	EventTime time.Time
	InitTime  time.Time
	Spec      BarSpec
}

// NewBar builds a bar from float prices, stamping InitTime with the
// current UTC instant. Convenience for upstream clients that decode
// numeric JSON payloads.
func NewBar(spec BarSpec, open, high, low, close, volume float64, eventTime time.Time) Bar {
	return Bar{
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(close),
		Volume:    decimal.NewFromFloat(volume),
		EventTime: eventTime.UTC(),
		InitTime:  time.Now().UTC(),
		Spec:      spec,
	}
}

// Validate checks the OHLC invariant: low <= min(open, close) and
// high >= max(open, close).
func (b Bar) Validate() error {
	if b.Low.GreaterThan(b.Open) || b.Low.GreaterThan(b.Close) {
		return fmt.Errorf("bar at %s: low %s above open/close", b.EventTime.Format(time.RFC3339), b.Low)
	}
	if b.High.LessThan(b.Open) || b.High.LessThan(b.Close) {
		return fmt.Errorf("bar at %s: high %s below open/close", b.EventTime.Format(time.RFC3339), b.High)
	}
	return nil
}

// InstrumentID is the opaque key addressing an instrument at the upstream
// provider: symbol plus venue (e.g. "EUR/USD" @ "IDEALPRO").
type InstrumentID struct {
	Symbol string
	Venue  string
}

// String renders the identity as "SYMBOL.VENUE".
func (id InstrumentID) String() string {
	return id.Symbol + "." + id.Venue
}

// RoundTheClock reports whether the venue trades 24h, which decides the
// upstream use-RTH flag (false for FX and crypto venues).
func (id InstrumentID) RoundTheClock() bool {
	switch id.Venue {
	case "IDEALPRO", "BYBIT", "BINANCE":
		return true
	default:
		return false
	}
}
