package journal

import (
	"testing"
	"time"

	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
)

// tradeAt builds a minimal trade for aggregation tests. Aggregation only
// reads the stored pnl, the exit time and the BE flag for most statistics.
func tradeAt(pnl float64, exit time.Time) models.Trade {
	return models.Trade{
		Symbol:    "MNQ",
		Direction: models.DirectionLong,
		Pnl:       pnl,
		ExitTime:  exit,
	}
}

// descending orders trades by exit time descending, the order the store
// hands to Aggregate.
func descending(trades ...models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func TestAggregateEmptyInput(t *testing.T) {
	result := Aggregate(nil, time.Now())

	assert.Equal(t, KpiSnapshot{}, result.Kpis)
	assert.Empty(t, result.ChartData)
	assert.Empty(t, result.CalendarData)
}

func TestAggregateWinRateExcludesBreakEven(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	be := tradeAt(2, now)
	be.IsBreakEven = true

	trades := descending(
		tradeAt(10, now),
		tradeAt(-5, now),
		be,
	)

	result := Aggregate(trades, now)

	// One win, one loss; the break-even +2 is out of the population.
	assert.Equal(t, 0.5, result.Kpis.WinRate)
	assert.Equal(t, 3, result.Kpis.TotalTrades)
	assert.Equal(t, 7.0, result.Kpis.TotalPnl)
	assert.Equal(t, 10.0, result.Kpis.AvgWin)
	assert.Equal(t, 5.0, result.Kpis.AvgLoss)
}

func TestAggregateWinRateZeroWhenOnlyBreakEven(t *testing.T) {
	now := time.Now()
	be := tradeAt(3, now)
	be.IsBreakEven = true

	result := Aggregate([]models.Trade{be}, now)

	assert.Zero(t, result.Kpis.WinRate)
	assert.Zero(t, result.Kpis.AvgWin)
	assert.Zero(t, result.Kpis.AvgLoss)
}

func TestAggregateRunningExtrema(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		pnls          []float64 // chronological
		expectedMax   float64
		expectedMin   float64
	}{
		{
			name: "All losers keep max at zero",
			pnls: []float64{-10, -20}, expectedMax: 0, expectedMin: -30,
		},
		{
			name: "All winners keep min at zero",
			pnls: []float64{15, 5}, expectedMax: 20, expectedMin: 0,
		},
		{
			name: "Peak before drawdown",
			pnls: []float64{50, 30, -100, 10}, expectedMax: 80, expectedMin: -20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chronological := make([]models.Trade, 0, len(tc.pnls))
			for i, pnl := range tc.pnls {
				chronological = append(chronological, tradeAt(pnl, now.Add(time.Duration(i)*time.Hour)))
			}

			result := Aggregate(descending(chronological...), now)

			assert.Equal(t, tc.expectedMax, result.Kpis.MaxPnl)
			assert.Equal(t, tc.expectedMin, result.Kpis.MinPnl)
		})
	}
}

func TestAggregateAvgRR(t *testing.T) {
	now := time.Now()

	// 2 points of risk, 4 points of reward: RR 2.
	long := tradeAt(0, now)
	long.EntryPrice, long.ExitPrice, long.StopLoss = 100, 104, 98
	long.Pnl = 8

	// 5 points of risk, 10 points of reward: RR 2, measured in raw price
	// distance regardless of contract multiplier.
	short := tradeAt(0, now)
	short.Direction = models.DirectionShort
	short.EntryPrice, short.ExitPrice, short.StopLoss = 4500, 4490, 4505
	short.Pnl = 500

	// Stop at entry: zero risk, excluded from the average entirely.
	zeroRisk := tradeAt(0, now)
	zeroRisk.EntryPrice, zeroRisk.ExitPrice, zeroRisk.StopLoss = 100, 150, 100
	zeroRisk.Pnl = 50

	// Unset stop behaves identically to a stop at entry.
	noStop := tradeAt(0, now)
	noStop.EntryPrice, noStop.ExitPrice = 100, 150
	noStop.Pnl = 50

	// Break-even trades are excluded even with a valid stop.
	be := tradeAt(0, now)
	be.EntryPrice, be.ExitPrice, be.StopLoss = 100, 190, 90
	be.IsBreakEven = true

	result := Aggregate(descending(long, short, zeroRisk, noStop, be), now)
	assert.Equal(t, 2.0, result.Kpis.AvgRR)

	// No qualifying trades at all yields 0.
	result = Aggregate(descending(zeroRisk, noStop, be), now)
	assert.Zero(t, result.Kpis.AvgRR)
}

func TestAggregatePeriodScoping(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.Local)

	trades := descending(
		tradeAt(100, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)),   // first instant of month
		tradeAt(50, time.Date(2024, 6, 14, 9, 30, 0, 0, time.Local)),  // today
		tradeAt(25, time.Date(2024, 2, 10, 10, 0, 0, 0, time.Local)),  // this year only
		tradeAt(-75, time.Date(2023, 6, 14, 10, 0, 0, 0, time.Local)), // last year, same month/day
	)

	result := Aggregate(trades, now)

	assert.Equal(t, 50.0, result.Kpis.DailyPnl)
	assert.Equal(t, 1, result.Kpis.DailyTrades)
	assert.Equal(t, 150.0, result.Kpis.MonthlyPnl)
	assert.Equal(t, 2, result.Kpis.MonthlyTrades)
	assert.Equal(t, 175.0, result.Kpis.YearlyPnl)
	assert.Equal(t, 3, result.Kpis.YearlyTrades)
	assert.Equal(t, 100.0, result.Kpis.TotalPnl)
	assert.Equal(t, 4, result.Kpis.TotalTrades)
}

func TestAggregateDailyBuckets(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	trades := descending(
		tradeAt(5, time.Date(2024, 1, 5, 9, 30, 0, 0, time.Local)),
		tradeAt(-3, time.Date(2024, 1, 5, 14, 0, 0, 0, time.Local)),
		tradeAt(7, time.Date(2024, 1, 8, 11, 0, 0, 0, time.Local)),
	)

	result := Aggregate(trades, now)

	// Same-day trades merge into one bucket.
	assert.Equal(t, []ChartPoint{
		{Date: "Jan 5", Pnl: 2},
		{Date: "Jan 8", Pnl: 7},
	}, result.ChartData)

	assert.Equal(t, []CalendarDay{
		{Date: "2024-01-05", Pnl: 2, TradeCount: 2},
		{Date: "2024-01-08", Pnl: 7, TradeCount: 1},
	}, result.CalendarData)
}

func TestAggregateChartSeriesIsNotCumulative(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.Local)

	trades := descending(
		tradeAt(10, time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)),
		tradeAt(20, time.Date(2024, 3, 2, 10, 0, 0, 0, time.Local)),
	)

	result := Aggregate(trades, now)

	// Per-day values, in chronological order; the cumulative transform is
	// the chart consumer's job.
	assert.Equal(t, []ChartPoint{
		{Date: "Mar 1", Pnl: 10},
		{Date: "Mar 2", Pnl: 20},
	}, result.ChartData)
}
