package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/sentiq/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "daily_routine", schedule: "0 0 19 * * *"}
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
	assert.Equal(t, []string{"daily_routine"}, s.Jobs())
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.AddJob(&fakeJob{name: "broken", schedule: "not cron"}))
}

func TestRunJobImmediately(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "daily_routine", schedule: "0 0 19 * * *"}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("daily_routine"))

	require.Eventually(t, func() bool {
		history, err := s.History("daily_routine")
		return err == nil && len(history.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(1), job.runs.Load())

	stats := s.Stats()["daily_routine"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastRun)
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.RunJob("nope"))
}

func TestJobHistoryBounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.Latest(5), 5)
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.05)
}
