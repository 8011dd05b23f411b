package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/forex-warmup-bot/pkg/types"
)

// TestLoad_Defaults tests the EUR/USD defaults when no environment is set
func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "EUR/USD", cfg.Instrument.Symbol)
	assert.Equal(t, "IDEALPRO", cfg.Instrument.Venue)
	assert.Equal(t, 270, cfg.Warmup.SlowPeriod)
	assert.Equal(t, 2*time.Second, cfg.Warmup.PacingDelay)
	assert.Equal(t, 120*time.Second, cfg.Warmup.ChunkTimeout)
	assert.Equal(t, 1.7, cfg.Warmup.BaseOversample)
	require.NoError(t, cfg.Validate())
}

// TestLoad_EnvOverrides tests that environment variables win over defaults
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENT_SYMBOL", "GBP/USD")
	t.Setenv("SLOW_PERIOD", "100")
	t.Setenv("PACING_DELAY", "500ms")
	t.Setenv("TARGET_INTERVAL", "5-MINUTE")

	cfg := Load()
	assert.Equal(t, "GBP/USD", cfg.Instrument.Symbol)
	assert.Equal(t, 100, cfg.Warmup.SlowPeriod)
	assert.Equal(t, 500*time.Millisecond, cfg.Warmup.PacingDelay)
	assert.Equal(t, types.NewBarSpec(5, types.UnitMinute), cfg.TargetSpec())
}

// TestValidate_RejectsBadValues tests the validation rules
func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Load()
	cfg.Warmup.SlowPeriod = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Warmup.FastPeriod = cfg.Warmup.SlowPeriod
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Warmup.TargetInterval = "FIFTEEN-ISH"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Instrument.Symbol = ""
	assert.Error(t, cfg.Validate())
}

// TestTargetSpec_FallsBackTo15Minutes tests the documented sizing fallback
func TestTargetSpec_FallsBackTo15Minutes(t *testing.T) {
	cfg := Load()
	cfg.Warmup.TargetInterval = "garbage"
	assert.Equal(t, types.NewBarSpec(15, types.UnitMinute), cfg.TargetSpec())
}
