package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/httputil"
	"github.com/rbarbosa/sentiq/pkg/logger"
	"github.com/rbarbosa/sentiq/pkg/redis"
)

// HTTPClassifier calls the sentiment inference service. Responses are
// cached in Redis keyed by a digest of the text, so re-ingesting the
// same article does not re-run the model.
type HTTPClassifier struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
}

// NewHTTPClassifier creates a classifier client. cache may be nil.
func NewHTTPClassifier(cfg config.ClassifierConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		baseURL:    cfg.BaseURL,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify labels one text. The service's label vocabulary maps onto
// the three-way sentiment; anything unrecognized comes back UNKNOWN
// with an error.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (contracts.Sentiment, error) {
	digest := textDigest(text)

	if c.cache != nil {
		var cached string
		if hit, err := c.cache.Get(ctx, redis.SentimentKey(digest), &cached); err == nil && hit {
			return contracts.ParseSentiment(cached), nil
		}
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/classify", classifyRequest{Text: text})
	if err != nil {
		return contracts.SentimentUnknown, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.SentimentUnknown, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.SentimentUnknown, fmt.Errorf("failed to read classifier response: %w", err)
	}

	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.SentimentUnknown, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	sentiment := contracts.ParseSentiment(parsed.Label)
	if sentiment == contracts.SentimentUnknown {
		return sentiment, fmt.Errorf("classifier returned unrecognized label %q", parsed.Label)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.SentimentKey(digest), string(sentiment), redis.TTLShort); err != nil {
			c.logger.WithError(err).Debug("Sentiment cache write failed")
		}
	}

	return sentiment, nil
}

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
