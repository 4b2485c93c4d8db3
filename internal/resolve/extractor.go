package resolve

import (
	"context"
	"strings"

	"github.com/rbarbosa/sentiq/internal/contracts"
)

// TableExtractor is a degraded organization extractor used when the
// NER collaborator is unavailable: it scans the text for the display
// names the ticker table already knows. Recall is limited to mapped
// organizations, which is exactly the subset that matters downstream.
type TableExtractor struct {
	names []string
}

// NewTableExtractor builds an extractor over the table's known names.
func NewTableExtractor(table *TickerTable) *TableExtractor {
	names := make([]string, 0, len(table.entries))
	for name := range table.entries {
		names = append(names, name)
	}
	return &TableExtractor{names: names}
}

// Organizations returns the known display names mentioned in the text.
func (e *TableExtractor) Organizations(_ context.Context, text string) ([]string, error) {
	lower := strings.ToLower(text)

	var found []string
	for _, name := range e.names {
		if strings.Contains(lower, strings.ToLower(name)) {
			found = append(found, name)
		}
	}
	return found, nil
}

var _ contracts.OrganizationExtractor = (*TableExtractor)(nil)
