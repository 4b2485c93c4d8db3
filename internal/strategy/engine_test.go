package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

func testConfig() config.StrategyConfig {
	return config.StrategyConfig{
		BuyThreshold:       1,
		SellThreshold:      -1,
		InitialCash:        100000,
		FeeRate:            0.001,
		SlippageRate:       0.001,
		AllocationFraction: 0.25,
		Annualization:      252,
	}
}

func alignedWith(values ...float64) *contracts.AlignedSignal {
	days := make([]time.Time, len(values))
	base := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	for i := range values {
		days[i] = base.AddDate(0, 0, i)
	}
	return &contracts.AlignedSignal{
		Days:    days,
		Tickers: []string{"PETR4.SA"},
		Values:  map[string][]float64{"PETR4.SA": values},
	}
}

func TestDecideStrictInequality(t *testing.T) {
	eng, err := NewEngine(testConfig(), logger.NewNop())
	require.NoError(t, err)

	// Values exactly on a threshold trigger nothing.
	entries, exits, result := eng.Decide(alignedWith(1, 2, -1, -2, 0))
	require.True(t, result.Success)

	assert.False(t, entries.Get(0, "PETR4.SA")) // == buy threshold
	assert.True(t, entries.Get(1, "PETR4.SA"))
	assert.False(t, exits.Get(2, "PETR4.SA")) // == sell threshold
	assert.True(t, exits.Get(3, "PETR4.SA"))
	assert.False(t, entries.Get(4, "PETR4.SA"))
	assert.False(t, exits.Get(4, "PETR4.SA"))

	assert.Equal(t, 1, entries.Count())
	assert.Equal(t, 1, exits.Count())
}

func TestDecideMatricesShareAxis(t *testing.T) {
	eng, err := NewEngine(testConfig(), logger.NewNop())
	require.NoError(t, err)

	aligned := alignedWith(0, 3, -3)
	entries, exits, _ := eng.Decide(aligned)

	assert.Equal(t, aligned.Days, entries.Days)
	assert.Equal(t, aligned.Days, exits.Days)
	assert.Equal(t, aligned.Tickers, entries.Tickers)
}

func TestNewEngineRejectsInvertedThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.BuyThreshold = -1
	cfg.SellThreshold = 1

	_, err := NewEngine(cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestDecideEmptyAxis(t *testing.T) {
	eng, err := NewEngine(testConfig(), logger.NewNop())
	require.NoError(t, err)

	entries, exits, result := eng.Decide(&contracts.AlignedSignal{Values: map[string][]float64{}})
	assert.True(t, result.Success)
	assert.Zero(t, entries.Count())
	assert.Zero(t, exits.Count())
}
