package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

var (
	// ErrNothingToProcess signals an empty or fragment-free input
	// stream. The run ends early but is not a failure.
	ErrNothingToProcess = errors.New("nothing to process")

	// ErrMissingField signals a batch without title/content fields.
	// Fatal for the ingestion stage; no partial corpus is written.
	ErrMissingField = errors.New("input records carry no title or content field")
)

// Ingestor normalizes, labels and merges newly crawled records into the
// persisted corpus. Merge is append-only and idempotent: a record whose
// trimmed title already exists in the corpus is a duplicate and is
// skipped. Duplicate titles within one incoming batch are NOT collapsed
// against each other, only against the corpus; both get ingested. This
// mirrors the upstream producer's own dedup behavior and is a
// deliberate, documented looseness.
type Ingestor struct {
	store      *CorpusStore
	normalizer *Normalizer
	classifier contracts.SentimentClassifier
	logger     *logger.Logger
}

// NewIngestor creates an ingestor.
func NewIngestor(store *CorpusStore, normalizer *Normalizer, classifier contracts.SentimentClassifier, log *logger.Logger) *Ingestor {
	return &Ingestor{
		store:      store,
		normalizer: normalizer,
		classifier: classifier,
		logger:     log,
	}
}

// rawEnvelope mirrors contracts.RawRecord with pointer fields so that
// absent keys are distinguishable from empty values.
type rawEnvelope struct {
	Title   *string     `json:"title"`
	URL     *string     `json:"url"`
	Date    interface{} `json:"date"`
	Content *string     `json:"content"`
	Source  *string     `json:"source"`
}

// Run ingests the raw input file into the corpus and acknowledges the
// source. The destructive acknowledgment happens strictly after the
// merged corpus is durably persisted.
func (g *Ingestor) Run(ctx context.Context, rawPath string) (contracts.StageResult, error) {
	start := time.Now()
	result := contracts.StageResult{Stage: contracts.StageIngest}

	raw, err := os.ReadFile(rawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, ErrNothingToProcess
		}
		return result, fmt.Errorf("read raw input: %w", err)
	}

	envelopes, parsed, skippedFragments := parseFragments(raw)
	if parsed == 0 {
		return result, ErrNothingToProcess
	}
	if skippedFragments > 0 {
		g.logger.WithField("fragments", skippedFragments).Warn("Skipped malformed input fragments")
	}

	if missingRequiredFields(envelopes) {
		return result, ErrMissingField
	}

	existing, err := g.store.Load()
	if err != nil {
		return result, err
	}
	titles := TitleSet(existing)

	accepted, err := g.prepare(ctx, envelopes, titles, &result)
	if err != nil {
		return result, err
	}
	result.Read = len(envelopes)
	result.Accepted = len(accepted)

	if len(accepted) > 0 {
		// Append-only merge: existing order is preserved, accepted
		// records follow in encounter order.
		merged := append(existing, accepted...)
		if err := g.store.Persist(merged); err != nil {
			// Persist failed: leave the raw source intact for retry.
			return result, fmt.Errorf("persist corpus: %w", err)
		}
	}

	if err := AckSource(rawPath); err != nil {
		// Corpus is already durable; a failed ack only risks
		// reprocessing, which dedup absorbs.
		g.logger.WithError(err).Warn("Failed to clear raw source")
	}

	result.Success = true
	result.DurationMS = time.Since(start).Milliseconds()

	g.logger.WithFields(map[string]interface{}{
		"read":       result.Read,
		"accepted":   result.Accepted,
		"duplicates": result.Duplicates,
		"excluded":   result.Excluded,
	}).Info("Ingestion merge completed")

	return result, nil
}

// prepare filters, normalizes and sentiment-labels the incoming batch.
func (g *Ingestor) prepare(ctx context.Context, envelopes []rawEnvelope, titles map[string]struct{}, result *contracts.StageResult) ([]*contracts.NewsRecord, error) {
	var accepted []*contracts.NewsRecord

	for _, env := range envelopes {
		title := strings.TrimSpace(deref(env.Title))
		content := strings.TrimSpace(deref(env.Content))

		combined := strings.TrimSpace(title + " " + content)
		if combined == "" {
			result.Excluded++
			continue
		}

		if title == "" {
			// Whitespace-only titles cannot be dedup keys; the record
			// is invalid for the corpus.
			result.Excluded++
			continue
		}

		if _, dup := titles[title]; dup {
			result.Duplicates++
			continue
		}

		sentiment, err := g.classifier.Classify(ctx, combined)
		if err != nil {
			// Collaborator failure surfaces to the caller before any
			// persist; the raw source stays intact.
			return nil, fmt.Errorf("classify %q: %w", title, err)
		}

		rec := &contracts.NewsRecord{
			Title:          deref(env.Title),
			URL:            deref(env.URL),
			RawDate:        env.Date,
			Content:        deref(env.Content),
			Source:         deref(env.Source),
			CombinedText:   combined,
			NormalizedDate: g.normalizer.Normalize(env.Date),
			Sentiment:      sentiment,
		}
		accepted = append(accepted, rec)
	}

	return accepted, nil
}

// parseFragments splits the stream and parses each fragment
// independently; a malformed fragment is skipped, not fatal.
// Returns the concatenated records, the count of fragments that
// parsed, and the count that were skipped.
func parseFragments(raw []byte) ([]rawEnvelope, int, int) {
	var all []rawEnvelope
	parsed, skipped := 0, 0

	for _, fragment := range SplitFragments(raw) {
		var batch []rawEnvelope
		if err := json.Unmarshal(fragment, &batch); err != nil {
			skipped++
			continue
		}
		parsed++
		all = append(all, batch...)
	}

	return all, parsed, skipped
}

// missingRequiredFields reports whether a non-empty batch carries
// neither a title nor a content field anywhere.
func missingRequiredFields(envelopes []rawEnvelope) bool {
	if len(envelopes) == 0 {
		return false
	}
	for _, env := range envelopes {
		if env.Title != nil || env.Content != nil {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
