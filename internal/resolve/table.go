package resolve

import (
	"encoding/json"
	"fmt"
	"os"
)

// TickerTable maps organization display names to ticker symbols. An
// explicit null in the source file marks a known organization with no
// listed instrument; those entries are excluded from resolution.
type TickerTable struct {
	entries map[string]string
}

// LoadTickerTable reads the flat JSON mapping file
// ({"Petrobras": "PETR4.SA", "Banco Central": null, ...}).
func LoadTickerTable(path string) (*TickerTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker table: %w", err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ticker table: %w", err)
	}

	return NewTickerTable(raw), nil
}

// NewTickerTable builds a table from a raw mapping; nil values mean
// "no mapping" and are dropped.
func NewTickerTable(raw map[string]*string) *TickerTable {
	entries := make(map[string]string, len(raw))
	for name, ticker := range raw {
		if ticker != nil && *ticker != "" {
			entries[name] = *ticker
		}
	}
	return &TickerTable{entries: entries}
}

// Lookup returns the ticker for an organization name.
func (t *TickerTable) Lookup(org string) (string, bool) {
	ticker, ok := t.entries[org]
	return ticker, ok
}

// Len returns the number of resolvable entries.
func (t *TickerTable) Len() int {
	return len(t.entries)
}
