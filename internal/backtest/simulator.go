package backtest

import (
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Simulator replays entry/exit matrices against the price series, one
// trading day at a time, tracking cash, positions, fees and slippage.
//
// Sizing rule: each entry spends a fixed fraction of current cash. The
// traded notional is budget / (1 + fee_rate), so notional plus fee
// equals exactly the budget and cash never goes negative. Quantities
// are fractional.
type Simulator struct {
	cfg    config.StrategyConfig
	logger *logger.Logger
}

// SimulationResult bundles everything the report stage needs.
type SimulationResult struct {
	Portfolio *contracts.PortfolioState
	Trades    []contracts.Trade
	Stats     contracts.PerformanceStats
}

// NewSimulator creates a simulator.
func NewSimulator(cfg config.StrategyConfig, log *logger.Logger) *Simulator {
	return &Simulator{cfg: cfg, logger: log}
}

// Run executes the backtest. For each day, every ticker's exit is
// evaluated before any entry, so exits free cash for same-day entries
// and a boundary tie where both matrices flag the same cell resolves
// to flat rather than reopening. A
// flagged cell with no quote that day is skipped and the signal is
// lost; exits while flat and entries while long are position no-ops
// and not counted as lost. Positions held through quoteless days keep
// their last known valuation.
func (s *Simulator) Run(entries, exits *contracts.SignalMatrix, prices *contracts.PriceSeries) (*SimulationResult, contracts.StageResult) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageSimulate, Read: entries.Count() + exits.Count()}

	state := contracts.NewPortfolioState(s.cfg.InitialCash)
	trades := make([]contracts.Trade, 0)

	for i, day := range entries.Days {
		for _, ticker := range entries.Tickers {
			if !exits.Get(i, ticker) {
				continue
			}
			if pos, held := state.Positions[ticker]; !held || pos.Quantity <= 0 {
				// exit while flat is a no-op, not a lost signal
				continue
			}
			if trade, ok := s.closePosition(state, day, ticker, prices); ok {
				trades = append(trades, trade)
			} else {
				result.Excluded++
			}
		}
		for _, ticker := range entries.Tickers {
			// a cell flagged both ways resolves flat, never reopened
			if !entries.Get(i, ticker) || exits.Get(i, ticker) {
				continue
			}
			if pos, held := state.Positions[ticker]; held && pos.Quantity > 0 {
				// repeat entry while long is a no-op as well
				continue
			}
			if trade, ok := s.openPosition(state, day, ticker, prices); ok {
				trades = append(trades, trade)
			} else {
				result.Excluded++
			}
		}

		// Mark open positions to the day's close before valuing. Days
		// without a quote carry the previous valuation.
		for ticker, pos := range state.Positions {
			if close, ok := prices.Get(day, ticker); ok {
				pos.LastPrice = close
			}
		}
		state.EquityCurve = append(state.EquityCurve, contracts.EquityPoint{
			Day:    day,
			Equity: state.Equity(),
		})
	}

	stats := ComputeStats(state, trades, s.cfg)

	result.Accepted = len(trades)
	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	s.logger.WithFields(map[string]interface{}{
		"days":         len(entries.Days),
		"trades":       len(trades),
		"skipped":      result.Excluded,
		"final_equity": stats.FinalEquity,
	}).Info("Backtest simulation complete")

	return &SimulationResult{Portfolio: state, Trades: trades, Stats: stats}, result
}

// openPosition buys with a fixed fraction of current cash. Only flat
// tickers enter; an entry signal on an open position is ignored.
func (s *Simulator) openPosition(state *contracts.PortfolioState, day time.Time, ticker string, prices *contracts.PriceSeries) (contracts.Trade, bool) {
	if pos, held := state.Positions[ticker]; held && pos.Quantity > 0 {
		return contracts.Trade{}, false
	}

	close, ok := prices.Get(day, ticker)
	if !ok {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"day":    day.Format("2006-01-02"),
		}).Warn("Entry signal skipped: no quote")
		return contracts.Trade{}, false
	}

	budget := state.Cash * s.cfg.AllocationFraction
	if budget <= 0 {
		return contracts.Trade{}, false
	}

	notional := budget / (1 + s.cfg.FeeRate)
	fillPrice := close * (1 + s.cfg.SlippageRate)
	quantity := notional / fillPrice
	fee := notional * s.cfg.FeeRate

	state.Cash -= notional + fee
	state.Positions[ticker] = &contracts.Position{
		Ticker:      ticker,
		Quantity:    quantity,
		AverageCost: (notional + fee) / quantity,
		LastPrice:   close,
	}

	return contracts.Trade{
		Day:          day,
		Ticker:       ticker,
		Side:         contracts.SideEntry,
		Price:        fillPrice,
		Quantity:     quantity,
		Fee:          fee,
		SlippageCost: quantity * close * s.cfg.SlippageRate,
	}, true
}

// closePosition sells the whole holding. Only open tickers exit.
func (s *Simulator) closePosition(state *contracts.PortfolioState, day time.Time, ticker string, prices *contracts.PriceSeries) (contracts.Trade, bool) {
	pos, held := state.Positions[ticker]
	if !held || pos.Quantity <= 0 {
		return contracts.Trade{}, false
	}

	close, ok := prices.Get(day, ticker)
	if !ok {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"day":    day.Format("2006-01-02"),
		}).Warn("Exit signal skipped: no quote")
		return contracts.Trade{}, false
	}

	fillPrice := close * (1 - s.cfg.SlippageRate)
	notional := pos.Quantity * fillPrice
	fee := notional * s.cfg.FeeRate
	proceeds := notional - fee
	pnl := proceeds - pos.Quantity*pos.AverageCost

	state.Cash += proceeds
	delete(state.Positions, ticker)

	return contracts.Trade{
		Day:          day,
		Ticker:       ticker,
		Side:         contracts.SideExit,
		Price:        fillPrice,
		Quantity:     pos.Quantity,
		Fee:          fee,
		SlippageCost: pos.Quantity * close * s.cfg.SlippageRate,
		PnL:          pnl,
	}, true
}
