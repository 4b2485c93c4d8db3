package ingest

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// Sanity window for numeric timestamps: [2000-01-01, 2050-01-01) in
// epoch seconds. Whatever interpretation a bare digit string gets, the
// resulting instant must land inside this window.
const (
	epochWindowMin = 946684800
	epochWindowMax = 2524608000
)

// isoLayouts are tried before the locale-aware parser; crawler feeds
// mix machine timestamps with human-written dates.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalizer converts the crawler's loosely-typed date values into UTC
// timestamps. Unparseable input yields nil, never an error: records
// keep flowing, they are just excluded from date-keyed stages.
type Normalizer struct {
	cfg *dateparser.Configuration
}

// NewNormalizer creates a normalizer for the given ingestion locale
// (e.g. "pt" for the Brazilian news sources).
func NewNormalizer(locale string) *Normalizer {
	return &Normalizer{
		cfg: &dateparser.Configuration{
			Languages:       []string{locale},
			DefaultTimezone: time.UTC,
		},
	}
}

// Normalize attempts to convert a raw date value to a timestamp.
// Accepts unix epochs of exactly 10 digits (seconds) or 13 digits
// (milliseconds), then ISO-8601 timestamps, then free-text dates in the
// ingestion locale. Any instant derived from a purely numeric input
// must land inside the sanity window. Returns nil when nothing works.
func (n *Normalizer) Normalize(raw interface{}) *time.Time {
	s := rawDateString(raw)
	if s == "" {
		return nil
	}

	if isNumeric(s) {
		if t := parseEpoch(s); t != nil {
			return t
		}
		// the free-text parser reads bare digits as timestamps too,
		// so it gets the same window applied to its result
		t := n.parseFreeText(s)
		if t == nil || t.Unix() < epochWindowMin || t.Unix() >= epochWindowMax {
			return nil
		}
		return t
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return n.parseFreeText(s)
}

func (n *Normalizer) parseFreeText(s string) *time.Time {
	dt, err := dateparser.Parse(n.cfg, s)
	if err != nil || dt.Time.IsZero() {
		return nil
	}
	t := dt.Time.UTC()
	return &t
}

// rawDateString renders the untyped date value as a trimmed string.
// JSON numbers arrive as float64; integral values are rendered without
// a decimal point so the digit-count heuristic still applies.
func rawDateString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseEpoch handles 10-digit (seconds) and 13-digit (milliseconds)
// numeric dates. Other digit counts and out-of-window values return nil.
func parseEpoch(s string) *time.Time {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}

	var sec, msec int64
	switch len(s) {
	case 10:
		sec = num
	case 13:
		sec = num / 1000
		msec = num % 1000
	default:
		return nil
	}

	if sec < epochWindowMin || sec >= epochWindowMax {
		return nil
	}

	t := time.Unix(sec, msec*int64(time.Millisecond)).UTC()
	return &t
}
