package resolve

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// Resolver attaches ticker sets to corpus records: the extractor
// collaborator names the organizations mentioned in each text, the
// ticker table maps those names to instruments. Unmapped organizations
// are simply dropped; a record that ends up with an empty ticker set
// stays in the corpus but is excluded from the tradable subset.
type Resolver struct {
	table     *TickerTable
	extractor contracts.OrganizationExtractor
	logger    *logger.Logger
}

// NewResolver creates a resolver.
func NewResolver(table *TickerTable, extractor contracts.OrganizationExtractor, log *logger.Logger) *Resolver {
	return &Resolver{
		table:     table,
		extractor: extractor,
		logger:    log,
	}
}

// Resolve returns enriched copies of the records, preserving input
// order, plus the tradable subset (records with at least one ticker).
// The inputs are never mutated. Records already carrying
// an organization list keep it; only unenriched ones go through the
// extractor.
func (r *Resolver) Resolve(ctx context.Context, records []*contracts.NewsRecord) ([]*contracts.NewsRecord, []*contracts.NewsRecord, contracts.StageResult, error) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageResolve, Read: len(records)}

	enriched := make([]*contracts.NewsRecord, 0, len(records))
	var tradable []*contracts.NewsRecord

	for _, rec := range records {
		rc := *rec

		orgs := rec.Organizations
		if orgs == nil {
			var err error
			orgs, err = r.extractor.Organizations(ctx, rec.CombinedText)
			if err != nil {
				return nil, nil, result, fmt.Errorf("extract organizations for %q: %w", rec.Key(), err)
			}
		}
		rc.Organizations = orgs
		rc.Tickers = r.mapTickers(orgs)

		enriched = append(enriched, &rc)
		if len(rc.Tickers) > 0 {
			tradable = append(tradable, &rc)
			result.Accepted++
		} else {
			result.Excluded++
		}
	}

	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	r.logger.WithFields(map[string]interface{}{
		"read":     result.Read,
		"tradable": result.Accepted,
		"excluded": result.Excluded,
	}).Info("Ticker resolution completed")

	return enriched, tradable, result, nil
}

// mapTickers converts organization names to a unique sorted ticker set.
func (r *Resolver) mapTickers(orgs []string) []string {
	seen := make(map[string]struct{})
	for _, org := range orgs {
		if ticker, ok := r.table.Lookup(org); ok {
			seen[ticker] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
