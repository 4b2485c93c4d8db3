package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/internal/ingest"
	"github.com/rbarbosa/sentiq/internal/report"
	"github.com/rbarbosa/sentiq/internal/scheduler"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// PipelineHandler serves the pipeline's read-only surface: corpus
// statistics, the latest report artifact and scheduler state.
type PipelineHandler struct {
	store     *ingest.CorpusStore
	scheduler *scheduler.Scheduler
	config    *config.Config
	logger    *logger.Logger
}

// NewPipelineHandler creates a pipeline handler. sched may be nil when
// the API runs without the scheduler.
func NewPipelineHandler(store *ingest.CorpusStore, sched *scheduler.Scheduler, cfg *config.Config, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		store:     store,
		scheduler: sched,
		config:    cfg,
		logger:    log,
	}
}

// CorpusStats summarizes the persisted corpus.
type CorpusStats struct {
	Records   int            `json:"records"`
	Dated     int            `json:"dated"`
	Tradable  int            `json:"tradable"`
	Days      int            `json:"days"`
	Sentiment map[string]int `json:"sentiment"`
	Sources   map[string]int `json:"sources"`
}

// GetCorpusStats reports corpus size and label distribution.
func (h *PipelineHandler) GetCorpusStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load corpus")
		return
	}

	stats := CorpusStats{
		Records:   len(records),
		Sentiment: make(map[string]int),
		Sources:   make(map[string]int),
	}
	days := make(map[string]struct{})
	for _, rec := range records {
		if day, ok := rec.Day(); ok {
			stats.Dated++
			days[day.Format("2006-01-02")] = struct{}{}
		}
		if rec.Tradable() {
			stats.Tradable++
		}
		if rec.Sentiment != "" {
			stats.Sentiment[string(rec.Sentiment)]++
		} else {
			stats.Sentiment[string(contracts.SentimentUnknown)]++
		}
		source := rec.Source
		if source == "" {
			source = "unknown"
		}
		stats.Sources[source]++
	}
	stats.Days = len(days)

	h.writeJSON(w, http.StatusOK, stats)
}

// GetLatestReport serves the most recent report artifact.
func (h *PipelineHandler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	rep, err := report.Load(h.config.ReportPath)
	if err != nil {
		if os.IsNotExist(err) {
			h.writeError(w, http.StatusNotFound, "no report generated yet")
			return
		}
		h.logger.WithError(err).Error("Failed to load report artifact")
		h.writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	h.writeJSON(w, http.StatusOK, rep)
}

// GetJobStats serves scheduler job statistics.
func (h *PipelineHandler) GetJobStats(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		h.writeError(w, http.StatusNotFound, "scheduler not running")
		return
	}
	h.writeJSON(w, http.StatusOK, h.scheduler.Stats())
}

func (h *PipelineHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *PipelineHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
