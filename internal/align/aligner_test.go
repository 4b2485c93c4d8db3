package align

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAlignWeekendSignalRollsIntoNextTradingDay(t *testing.T) {
	al := NewAligner(logger.NewNop())

	daily := contracts.NewDailySignal()
	daily.Add(day(2025, time.November, 1), "PETR4.SA", 2)  // Saturday, no Monday news
	daily.Add(day(2025, time.November, 5), "PETR4.SA", -1) // Wednesday

	prices := contracts.NewPriceSeries()
	prices.Set(day(2025, time.October, 31), "PETR4.SA", 30.0) // Friday
	prices.Set(day(2025, time.November, 3), "PETR4.SA", 31.0) // Monday
	prices.Set(day(2025, time.November, 4), "PETR4.SA", 31.5) // Tuesday
	prices.Set(day(2025, time.November, 5), "PETR4.SA", 31.2) // Wednesday

	aligned, result := al.Align(daily, prices)
	require.True(t, result.Success)

	// Axis starts at the Saturday signal (overlap lower bound), so
	// Friday falls outside and Monday is row zero.
	require.Equal(t, []time.Time{
		day(2025, time.November, 3),
		day(2025, time.November, 4),
		day(2025, time.November, 5),
	}, aligned.Days)

	// Monday can trade on nothing; Tuesday trades on the weekend news;
	// Wednesday still sees it because Tuesday brought nothing new.
	assert.Equal(t, 0.0, aligned.Get(0, "PETR4.SA"))
	assert.Equal(t, 2.0, aligned.Get(1, "PETR4.SA"))
	assert.Equal(t, 2.0, aligned.Get(2, "PETR4.SA"))
}

func TestAlignNoSameDayLookahead(t *testing.T) {
	al := NewAligner(logger.NewNop())

	daily := contracts.NewDailySignal()
	daily.Add(day(2025, time.November, 3), "VALE3.SA", 3)

	prices := contracts.NewPriceSeries()
	prices.Set(day(2025, time.November, 3), "VALE3.SA", 60.0)
	prices.Set(day(2025, time.November, 4), "VALE3.SA", 61.0)

	aligned, _ := al.Align(daily, prices)
	require.Equal(t, 2, aligned.Len())

	// Monday's own news is only visible from Tuesday on.
	assert.Equal(t, 0.0, aligned.Get(0, "VALE3.SA"))
	assert.Equal(t, 3.0, aligned.Get(1, "VALE3.SA"))
}

func TestAlignBucketDayZeroesSilentTickers(t *testing.T) {
	al := NewAligner(logger.NewNop())

	// Buckets exist Monday, Tuesday and Thursday; Wednesday has none.
	daily := contracts.NewDailySignal()
	daily.Add(day(2025, time.November, 3), "PETR4.SA", 2)
	daily.Add(day(2025, time.November, 4), "VALE3.SA", -1)
	daily.Add(day(2025, time.November, 6), "VALE3.SA", 1)

	prices := contracts.NewPriceSeries()
	for d := 3; d <= 6; d++ {
		prices.Set(day(2025, time.November, d), "PETR4.SA", 30.0)
		prices.Set(day(2025, time.November, d), "VALE3.SA", 60.0)
	}

	aligned, _ := al.Align(daily, prices)
	require.Equal(t, 4, aligned.Len())

	// Tuesday's bucket has no PETR4 cell, so its Monday score is gone
	// from Wednesday on; a single headline does not signal forever.
	assert.Equal(t, 2.0, aligned.Get(1, "PETR4.SA"))
	assert.Equal(t, 0.0, aligned.Get(2, "PETR4.SA"))
	assert.Equal(t, 0.0, aligned.Get(3, "PETR4.SA"))

	// Bucketless Wednesday carries Tuesday's VALE3 score forward.
	assert.Equal(t, 0.0, aligned.Get(1, "VALE3.SA"))
	assert.Equal(t, -1.0, aligned.Get(2, "VALE3.SA"))
	assert.Equal(t, -1.0, aligned.Get(3, "VALE3.SA"))
}

func TestAlignAxisIsRangeIntersection(t *testing.T) {
	al := NewAligner(logger.NewNop())

	daily := contracts.NewDailySignal()
	daily.Add(day(2025, time.November, 5), "PETR4.SA", 1)
	daily.Add(day(2025, time.November, 7), "PETR4.SA", 1)

	prices := contracts.NewPriceSeries()
	for d := 3; d <= 12; d++ {
		prices.Set(day(2025, time.November, d), "PETR4.SA", 30.0)
	}

	aligned, _ := al.Align(daily, prices)

	require.NotZero(t, aligned.Len())
	assert.Equal(t, day(2025, time.November, 5), aligned.Days[0])
	assert.Equal(t, day(2025, time.November, 7), aligned.Days[aligned.Len()-1])
}

func TestAlignDisjointRanges(t *testing.T) {
	al := NewAligner(logger.NewNop())

	daily := contracts.NewDailySignal()
	daily.Add(day(2025, time.January, 10), "PETR4.SA", 1)

	prices := contracts.NewPriceSeries()
	prices.Set(day(2025, time.June, 2), "PETR4.SA", 30.0)

	aligned, result := al.Align(daily, prices)
	assert.True(t, result.Success)
	assert.Zero(t, aligned.Len())
}

func TestAlignEmptyInputs(t *testing.T) {
	al := NewAligner(logger.NewNop())

	aligned, result := al.Align(contracts.NewDailySignal(), contracts.NewPriceSeries())
	assert.True(t, result.Success)
	assert.Zero(t, aligned.Len())
}
