package journal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"trade-journal-go/internal/models"
)

// KpiSnapshot holds every headline statistic shown on the dashboard.
type KpiSnapshot struct {
	TotalPnl    float64 `json:"totalPnL"`
	WinRate     float64 `json:"winRate"`
	AvgRR       float64 `json:"avgRR"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`
	TotalTrades int     `json:"totalTrades"`

	DailyPnl      float64 `json:"dailyPnL"`
	DailyTrades   int     `json:"dailyTradesCount"`
	MonthlyPnl    float64 `json:"monthlyPnL"`
	MonthlyTrades int     `json:"monthlyTradesCount"`
	YearlyPnl     float64 `json:"yearlyPnL"`
	YearlyTrades  int     `json:"yearlyTradesCount"`

	// High and low water marks of the cumulative P&L curve, both starting
	// from 0 before the first trade.
	MaxPnl float64 `json:"maxPnL"`
	MinPnl float64 `json:"minPnL"`
}

// ChartPoint is one day of summed P&L for the profit chart. The series is
// per-day, not cumulative; consumers needing an equity curve run their own
// running total so the same series also serves the daily view.
type ChartPoint struct {
	Date string  `json:"date"` // short label, e.g. "Jan 5"
	Pnl  float64 `json:"pnl"`
}

// CalendarDay is one day of summed P&L and trade count for the month-grid
// calendar, which looks entries up by exact date.
type CalendarDay struct {
	Date       string  `json:"date"` // "YYYY-MM-DD"
	Pnl        float64 `json:"pnl"`
	TradeCount int     `json:"tradeCount"`
}

// Dashboard is the full analytics output for one aggregation pass.
type Dashboard struct {
	Kpis         KpiSnapshot   `json:"kpis"`
	ChartData    []ChartPoint  `json:"chartData"`
	CalendarData []CalendarDay `json:"calendarData"`
}

// Aggregate recomputes the complete dashboard from the given trade set.
// The input must be ordered by exit time descending, as the store returns it.
// It is a pure function of the trades and the caller's clock: "now" is passed
// in explicitly so period stats are deterministic and testable. An empty input
// yields a zero snapshot and empty series, never an error.
func Aggregate(trades []models.Trade, now time.Time) Dashboard {
	kpis := KpiSnapshot{TotalTrades: len(trades)}

	var wins, losses, grossWin, grossLoss float64
	var rrSum float64
	var rrCount int

	for _, t := range trades {
		kpis.TotalPnl += t.Pnl

		// Break-even trades are excluded from win rate and average R:R.
		if !t.IsBreakEven {
			if t.Pnl > 0 {
				wins++
				grossWin += t.Pnl
			} else {
				losses++
				grossLoss += math.Abs(t.Pnl)
			}

			// Risk is the stop distance in raw price terms. An unset stop
			// collapses the distance to zero and drops the trade from the
			// ratio entirely.
			stop := t.StopLoss
			if stop == 0 {
				stop = t.EntryPrice
			}
			risk := math.Abs(t.EntryPrice - stop)
			if risk > 0 {
				reward := t.ExitPrice - t.EntryPrice
				if t.Direction != models.DirectionLong {
					reward = t.EntryPrice - t.ExitPrice
				}
				rrSum += reward / risk
				rrCount++
			}
		}
	}

	if wins+losses > 0 {
		kpis.WinRate = wins / (wins + losses)
	}
	if wins > 0 {
		kpis.AvgWin = grossWin / wins
	}
	if losses > 0 {
		kpis.AvgLoss = grossLoss / losses
	}
	if rrCount > 0 {
		kpis.AvgRR = rrSum / float64(rrCount)
	}

	// Period stats: three independent calendar-boundary filters against now,
	// not rolling windows.
	for _, t := range trades {
		if t.ExitTime.Year() != now.Year() {
			continue
		}
		kpis.YearlyPnl += t.Pnl
		kpis.YearlyTrades++
		if t.ExitTime.Month() != now.Month() {
			continue
		}
		kpis.MonthlyPnl += t.Pnl
		kpis.MonthlyTrades++
		if t.ExitTime.Day() != now.Day() {
			continue
		}
		kpis.DailyPnl += t.Pnl
		kpis.DailyTrades++
	}

	// Walk the trades oldest-first, tracking the extremes the cumulative P&L
	// curve ever reaches. Callers compare these against an account's initial
	// balance and drawdown limits.
	var running float64
	for i := len(trades) - 1; i >= 0; i-- {
		running += trades[i].Pnl
		if running > kpis.MaxPnl {
			kpis.MaxPnl = running
		}
		if running < kpis.MinPnl {
			kpis.MinPnl = running
		}
	}

	chart, calendar := bucketByDay(trades)

	return Dashboard{
		Kpis:         kpis,
		ChartData:    chart,
		CalendarData: calendar,
	}
}

// bucketByDay groups trades by the local calendar date of their exit time and
// renders the shared buckets as both the chart and calendar series.
func bucketByDay(trades []models.Trade) ([]ChartPoint, []CalendarDay) {
	pnlByDate := make(map[string]float64)
	countByDate := make(map[string]int)

	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		key := fmt.Sprintf("%04d-%02d-%02d", t.ExitTime.Year(), int(t.ExitTime.Month()), t.ExitTime.Day())
		pnlByDate[key] += t.Pnl
		countByDate[key]++
	}

	dates := make([]string, 0, len(pnlByDate))
	for date := range pnlByDate {
		dates = append(dates, date)
	}
	// Lexicographic order on YYYY-MM-DD keys is chronological.
	sort.Strings(dates)

	chart := make([]ChartPoint, 0, len(dates))
	calendar := make([]CalendarDay, 0, len(dates))
	for _, date := range dates {
		day, _ := time.Parse("2006-01-02", date)
		chart = append(chart, ChartPoint{
			Date: day.Format("Jan 2"),
			Pnl:  pnlByDate[date],
		})
		calendar = append(calendar, CalendarDay{
			Date:       date,
			Pnl:        pnlByDate[date],
			TradeCount: countByDate[date],
		})
	}

	return chart, calendar
}
