package strategy

import (
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Engine turns the lagged signal into boolean entry and exit matrices
// by fixed thresholding. Both inequalities are strict: a value sitting
// exactly on a threshold triggers nothing.
type Engine struct {
	cfg    config.StrategyConfig
	logger *logger.Logger
}

// NewEngine validates the strategy configuration and creates the
// engine. buy_threshold < sell_threshold is a configuration error.
func NewEngine(cfg config.StrategyConfig, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, logger: log}, nil
}

// Decide produces the entry and exit matrices over the aligned axis.
//
//	entries[day, ticker] = signal > buy_threshold
//	exits[day, ticker]   = signal < sell_threshold
func (e *Engine) Decide(aligned *contracts.AlignedSignal) (*contracts.SignalMatrix, *contracts.SignalMatrix, contracts.StageResult) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageDecide, Read: aligned.Len() * len(aligned.Tickers)}

	entries := contracts.NewSignalMatrix(aligned.Days, aligned.Tickers)
	exits := contracts.NewSignalMatrix(aligned.Days, aligned.Tickers)

	for _, ticker := range aligned.Tickers {
		for i := range aligned.Days {
			v := aligned.Get(i, ticker)
			if v > e.cfg.BuyThreshold {
				entries.Set(i, ticker, true)
			}
			if v < e.cfg.SellThreshold {
				exits.Set(i, ticker, true)
			}
		}
	}

	result.Accepted = entries.Count() + exits.Count()
	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	e.logger.WithFields(map[string]interface{}{
		"buy_threshold":  e.cfg.BuyThreshold,
		"sell_threshold": e.cfg.SellThreshold,
		"entries":        entries.Count(),
		"exits":          exits.Count(),
		"days":           aligned.Len(),
	}).Info("Entry/exit signals decided")

	return entries, exits, result
}
