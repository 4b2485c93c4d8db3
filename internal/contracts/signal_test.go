package contracts

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailySignal_Add(t *testing.T) {
	sig := NewDailySignal()
	d := day(2025, 10, 28)

	sig.Add(d, "PETR4.SA", 1)
	sig.Add(d, "PETR4.SA", 1)
	sig.Add(d, "PETR4.SA", -1)

	if got := sig.Get(d, "PETR4.SA"); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	if got := sig.Get(d, "VALE3.SA"); got != 0 {
		t.Errorf("missing cell = %d, want 0", got)
	}
}

func TestDailySignal_DaysSorted(t *testing.T) {
	sig := NewDailySignal()
	sig.Add(day(2025, 10, 30), "A", 1)
	sig.Add(day(2025, 10, 28), "A", 1)
	sig.Add(day(2025, 10, 29), "B", -1)

	days := sig.Days()
	if len(days) != 3 {
		t.Fatalf("Days() len = %d, want 3", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i-1].Before(days[i]) {
			t.Errorf("Days() not sorted at %d: %v >= %v", i, days[i-1], days[i])
		}
	}

	tickers := sig.Tickers()
	if len(tickers) != 2 || tickers[0] != "A" || tickers[1] != "B" {
		t.Errorf("Tickers() = %v, want [A B]", tickers)
	}
}

func TestPriceSeries_Get(t *testing.T) {
	prices := NewPriceSeries()
	d := day(2025, 10, 28)
	prices.Set(d, "VALE3.SA", 61.5)

	close, ok := prices.Get(d, "VALE3.SA")
	if !ok || close != 61.5 {
		t.Errorf("Get() = (%v, %v), want (61.5, true)", close, ok)
	}

	if _, ok := prices.Get(day(2025, 10, 29), "VALE3.SA"); ok {
		t.Error("expected missing quote for absent day")
	}
}

func TestAlignedSignal_Get(t *testing.T) {
	aligned := &AlignedSignal{
		Days:    []time.Time{day(2025, 10, 27), day(2025, 10, 28)},
		Tickers: []string{"PETR4.SA"},
		Values:  map[string][]float64{"PETR4.SA": {0, 2}},
	}

	if got := aligned.Get(1, "PETR4.SA"); got != 2 {
		t.Errorf("Get(1) = %v, want 2", got)
	}
	if got := aligned.Get(5, "PETR4.SA"); got != 0 {
		t.Errorf("out-of-range Get = %v, want 0", got)
	}
	if got := aligned.Get(0, "XXXX"); got != 0 {
		t.Errorf("unknown ticker Get = %v, want 0", got)
	}
}
