package contracts

import "time"

// Side distinguishes entries from exits.
type Side string

const (
	SideEntry Side = "ENTRY"
	SideExit  Side = "EXIT"
)

// Order is a thresholding decision before execution: on this day, for
// this ticker, open or close the position.
type Order struct {
	Day    time.Time `json:"day"`
	Ticker string    `json:"ticker"`
	Side   Side      `json:"side"`
}

// SignalMatrix is a boolean matrix over the aligned-signal axis. Entries
// and exits produced by the strategy engine share this shape.
type SignalMatrix struct {
	Days    []time.Time       `json:"days"`
	Tickers []string          `json:"tickers"`
	Cells   map[string][]bool `json:"cells"` // ticker -> one flag per day
}

// NewSignalMatrix creates an all-false matrix over the given axis.
func NewSignalMatrix(days []time.Time, tickers []string) *SignalMatrix {
	cells := make(map[string][]bool, len(tickers))
	for _, t := range tickers {
		cells[t] = make([]bool, len(days))
	}
	return &SignalMatrix{Days: days, Tickers: tickers, Cells: cells}
}

// Set writes the flag at (day index, ticker); out of range is a no-op.
func (m *SignalMatrix) Set(i int, ticker string, v bool) {
	col, ok := m.Cells[ticker]
	if !ok || i < 0 || i >= len(col) {
		return
	}
	col[i] = v
}

// Get returns the flag at (day index, ticker); out of range is false.
func (m *SignalMatrix) Get(i int, ticker string) bool {
	col, ok := m.Cells[ticker]
	if !ok || i < 0 || i >= len(col) {
		return false
	}
	return col[i]
}

// Count returns the number of true cells.
func (m *SignalMatrix) Count() int {
	n := 0
	for _, col := range m.Cells {
		for _, v := range col {
			if v {
				n++
			}
		}
	}
	return n
}
