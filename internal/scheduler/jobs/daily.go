package jobs

import (
	"context"
	"fmt"

	"github.com/rbarbosa/sentiq/internal/pipeline"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/logger"
)

// DailyRoutineJob ingests the overnight crawl and refreshes the
// backtest report once per day, after the market close.
type DailyRoutineJob struct {
	orchestrator *pipeline.Orchestrator
	config       *config.Config
	logger       *logger.Logger
}

// NewDailyRoutineJob creates the daily routine job.
func NewDailyRoutineJob(orch *pipeline.Orchestrator, cfg *config.Config, log *logger.Logger) *DailyRoutineJob {
	return &DailyRoutineJob{
		orchestrator: orch,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name.
func (j *DailyRoutineJob) Name() string {
	return "daily_routine"
}

// Schedule runs at 19:00 daily, after the B3 close.
func (j *DailyRoutineJob) Schedule() string {
	return "0 0 19 * * *"
}

// Run executes ingestion and the full backtest.
func (j *DailyRoutineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting daily routine")

	summary, err := j.orchestrator.RunBacktest(ctx)
	if err != nil {
		return fmt.Errorf("daily routine: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"stages": len(summary.StageResults),
		"trades": summary.Report.Stats.TradeCount,
	}).Info("Daily routine completed")
	return nil
}
