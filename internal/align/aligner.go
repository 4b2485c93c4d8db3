package align

import (
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Aligner reindexes the sparse daily signal onto the price-series
// trading calendar and lags it by one trading day, so that the value
// visible on day T is the signal as it stood after day T-1.
type Aligner struct {
	logger *logger.Logger
}

// NewAligner creates an aligner.
func NewAligner(log *logger.Logger) *Aligner {
	return &Aligner{logger: log}
}

// Align builds the lagged decision signal. The axis is the set of
// trading days in the price series that fall inside the overlap of the
// two date ranges. The daily signal is a dense frame over its bucket
// days: on a bucket day a ticker with no news reads as zero. For each
// trading day T the pre-lag value is the dense cell of the most recent
// bucket day <= T, so forward fill only bridges days with no bucket at
// all (weekend news rolls into Monday); days before the first bucket
// read as zero. The whole frame is then shifted down one row, with row
// zero forced to zero, so no row can see same-day news.
func (a *Aligner) Align(daily *contracts.DailySignal, prices *contracts.PriceSeries) (*contracts.AlignedSignal, contracts.StageResult) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageAlign}

	aligned := &contracts.AlignedSignal{Values: make(map[string][]float64)}

	if daily.IsEmpty() || prices.IsEmpty() {
		result.Success = true
		result.DurationMS = time.Since(start).Milliseconds()
		a.logger.Warn("Nothing to align: empty signal or price series")
		return aligned, result
	}

	signalDays := daily.Days()
	priceDays := prices.Days()

	from := maxTime(signalDays[0], priceDays[0])
	to := minTime(signalDays[len(signalDays)-1], priceDays[len(priceDays)-1])

	axis := make([]time.Time, 0, len(priceDays))
	for _, day := range priceDays {
		if day.Before(from) || day.After(to) {
			continue
		}
		axis = append(axis, day)
	}

	if len(axis) == 0 {
		result.Success = true
		result.DurationMS = time.Since(start).Milliseconds()
		a.logger.Warn("Signal and price date ranges do not overlap")
		return aligned, result
	}

	tickers := daily.Tickers()
	aligned.Days = axis
	aligned.Tickers = tickers

	for _, ticker := range tickers {
		filled := make([]float64, len(axis))
		cursor := 0 // next signal day to consume
		carry := 0
		for i, day := range axis {
			for cursor < len(signalDays) && !signalDays[cursor].After(day) {
				// dense read: a bucket day where only other tickers
				// had news zeroes this ticker's cell
				carry = daily.Scores[signalDays[cursor]][ticker]
				cursor++
			}
			filled[i] = float64(carry)
		}

		// shift(1): row zero has no prior trading day to look back to
		lagged := make([]float64, len(axis))
		copy(lagged[1:], filled[:len(filled)-1])
		aligned.Values[ticker] = lagged
	}

	result.Read = len(signalDays)
	result.Accepted = len(axis)
	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	a.logger.WithFields(map[string]interface{}{
		"signal_days":  len(signalDays),
		"trading_days": len(axis),
		"tickers":      len(tickers),
		"from":         axis[0].Format("2006-01-02"),
		"to":           axis[len(axis)-1].Format("2006-01-02"),
	}).Info("Signal aligned to price calendar")

	return aligned, result
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
