package contracts

import "time"

// Trade is an immutable execution record produced by the simulator.
type Trade struct {
	Day          time.Time `json:"day"`
	Ticker       string    `json:"ticker"`
	Side         Side      `json:"side"`
	Price        float64   `json:"price"` // fill price after slippage
	Quantity     float64   `json:"quantity"`
	Fee          float64   `json:"fee"`
	SlippageCost float64   `json:"slippage_cost"`
	PnL          float64   `json:"pnl"` // realized, exits only
}

// Position is a per-ticker holding, mutated only by trade execution.
type Position struct {
	Ticker      string  `json:"ticker"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"` // per share, fee included

	// Last price the position was valued at; carried forward over
	// days with a missing quote.
	LastPrice float64 `json:"last_price"`
}

// EquityPoint is one day of the equity curve.
type EquityPoint struct {
	Day    time.Time `json:"day"`
	Equity float64   `json:"equity"`
}

// PortfolioState tracks cash, open positions and the equity curve,
// stepped one trading day at a time in calendar order.
type PortfolioState struct {
	Cash        float64              `json:"cash"`
	Positions   map[string]*Position `json:"positions"`
	EquityCurve []EquityPoint        `json:"equity_curve"`
}

// NewPortfolioState initializes a portfolio with starting cash.
func NewPortfolioState(initialCash float64) *PortfolioState {
	return &PortfolioState{
		Cash:      initialCash,
		Positions: make(map[string]*Position),
	}
}

// Equity returns cash plus the value of open positions at their most
// recent known prices.
func (s *PortfolioState) Equity() float64 {
	total := s.Cash
	for _, pos := range s.Positions {
		total += pos.Quantity * pos.LastPrice
	}
	return total
}

// PerformanceStats is the read-only summary computed once from the
// completed equity curve and trade list.
type PerformanceStats struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	InitialCash float64   `json:"initial_cash"`
	FinalEquity float64   `json:"final_equity"`
	TotalReturn float64   `json:"total_return"` // final/initial - 1
	WinRate     float64   `json:"win_rate"`     // fraction of round trips with positive P&L
	MaxDrawdown float64   `json:"max_drawdown"` // largest peak-to-trough decline
	SharpeRatio float64   `json:"sharpe_ratio"`
	TradeCount  int       `json:"trade_count"`
	RoundTrips  int       `json:"round_trips"`
}
