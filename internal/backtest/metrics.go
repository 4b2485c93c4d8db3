package backtest

import (
	"math"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/config"
)

// ComputeStats summarizes a completed simulation. All figures derive
// from the equity curve and the trade list alone.
func ComputeStats(state *contracts.PortfolioState, trades []contracts.Trade, cfg config.StrategyConfig) contracts.PerformanceStats {
	stats := contracts.PerformanceStats{
		InitialCash: cfg.InitialCash,
		FinalEquity: cfg.InitialCash,
		TradeCount:  len(trades),
	}

	curve := state.EquityCurve
	if len(curve) > 0 {
		stats.PeriodStart = curve[0].Day
		stats.PeriodEnd = curve[len(curve)-1].Day
		stats.FinalEquity = curve[len(curve)-1].Equity
	}
	stats.TotalReturn = stats.FinalEquity/cfg.InitialCash - 1

	wins := 0
	for _, trade := range trades {
		if trade.Side != contracts.SideExit {
			continue
		}
		stats.RoundTrips++
		if trade.PnL > 0 {
			wins++
		}
	}
	if stats.RoundTrips > 0 {
		stats.WinRate = float64(wins) / float64(stats.RoundTrips)
	}

	stats.MaxDrawdown = maxDrawdown(curve)
	stats.SharpeRatio = sharpe(curve, cfg.Annualization)

	return stats
}

// maxDrawdown returns the largest peak-to-trough decline as a positive
// fraction of the peak.
func maxDrawdown(curve []contracts.EquityPoint) float64 {
	var peak, worst float64
	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			dd := (peak - point.Equity) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// sharpe computes the annualized Sharpe ratio of the daily equity
// returns with a zero risk-free rate. Fewer than two days, or a flat
// curve, yields zero.
func sharpe(curve []contracts.EquityPoint, annualization int) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(float64(annualization))
}
