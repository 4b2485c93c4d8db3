package contracts

import (
	"sort"
	"time"
)

// DailySignal is the sparse (calendar day, ticker) -> score mapping
// produced by the aggregation stage. Missing cells mean zero.
type DailySignal struct {
	// Scores is keyed by UTC-midnight day, then ticker.
	Scores map[time.Time]map[string]int `json:"scores"`
}

// NewDailySignal creates an empty daily signal.
func NewDailySignal() *DailySignal {
	return &DailySignal{Scores: make(map[time.Time]map[string]int)}
}

// Add accumulates a contribution for (day, ticker).
func (d *DailySignal) Add(day time.Time, ticker string, score int) {
	row, ok := d.Scores[day]
	if !ok {
		row = make(map[string]int)
		d.Scores[day] = row
	}
	row[ticker] += score
}

// Get returns the aggregated score for (day, ticker); absent cells are 0.
func (d *DailySignal) Get(day time.Time, ticker string) int {
	return d.Scores[day][ticker]
}

// Days returns the calendar days present, sorted ascending.
func (d *DailySignal) Days() []time.Time {
	days := make([]time.Time, 0, len(d.Scores))
	for day := range d.Scores {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Tickers returns every ticker with at least one contribution, sorted.
func (d *DailySignal) Tickers() []string {
	seen := make(map[string]struct{})
	for _, row := range d.Scores {
		for ticker := range row {
			seen[ticker] = struct{}{}
		}
	}
	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// IsEmpty reports whether no contribution was recorded at all.
func (d *DailySignal) IsEmpty() bool {
	return len(d.Scores) == 0
}

// PriceSeries maps trading days to per-ticker closing prices. Only
// trading days are present; weekends and holidays are absent.
type PriceSeries struct {
	Closes map[time.Time]map[string]float64 `json:"closes"`
}

// NewPriceSeries creates an empty price series.
func NewPriceSeries() *PriceSeries {
	return &PriceSeries{Closes: make(map[time.Time]map[string]float64)}
}

// Set records a closing price for (day, ticker).
func (p *PriceSeries) Set(day time.Time, ticker string, close float64) {
	row, ok := p.Closes[day]
	if !ok {
		row = make(map[string]float64)
		p.Closes[day] = row
	}
	row[ticker] = close
}

// Get returns the close for (day, ticker); ok is false for missing quotes.
func (p *PriceSeries) Get(day time.Time, ticker string) (float64, bool) {
	close, ok := p.Closes[day][ticker]
	return close, ok
}

// Days returns the trading days present, sorted ascending.
func (p *PriceSeries) Days() []time.Time {
	days := make([]time.Time, 0, len(p.Closes))
	for day := range p.Closes {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Tickers returns every ticker with at least one quote, sorted.
func (p *PriceSeries) Tickers() []string {
	seen := make(map[string]struct{})
	for _, row := range p.Closes {
		for ticker := range row {
			seen[ticker] = struct{}{}
		}
	}
	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// IsEmpty reports whether the series holds no quotes.
func (p *PriceSeries) IsEmpty() bool {
	return len(p.Closes) == 0
}

// AlignedSignal is the daily signal reindexed onto the price calendar,
// forward-filled and lagged by one trading day. The value at row i is
// what a decision on Days[i] is allowed to see: the signal as of the
// previous trading day.
type AlignedSignal struct {
	Days    []time.Time          `json:"days"`    // trading-day axis, ascending
	Tickers []string             `json:"tickers"` // column order
	Values  map[string][]float64 `json:"values"`  // ticker -> one value per day
}

// Get returns the lagged signal value at (day index, ticker).
func (a *AlignedSignal) Get(i int, ticker string) float64 {
	col, ok := a.Values[ticker]
	if !ok || i < 0 || i >= len(col) {
		return 0
	}
	return col[i]
}

// Len returns the number of trading days on the axis.
func (a *AlignedSignal) Len() int {
	return len(a.Days)
}
