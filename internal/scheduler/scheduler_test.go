package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/autovault/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 앞쪽 N회 실패
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("boom")
	}
	return nil
}

func newTestScheduler(opts ...Option) *Scheduler {
	opts = append([]Option{WithRetry(2, 0)}, opts...)
	return New(logger.Nop(), opts...)
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "@hourly"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */5 * * * *"}))

	err := s.AddJob(&fakeJob{name: "a", schedule: "@hourly"})
	assert.Error(t, err)

	err = s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"})
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.cron.Entries())
	assert.Error(t, s.RemoveJob("a"))
}

func TestReAddJob_KeepsHistory(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	_, err := s.RunNow(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, s.RemoveJob("a"))
	history, err := s.GetJobHistory("a")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@daily"}))
	history, err = s.GetJobHistory("a")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
	assert.Equal(t, 1, s.GetJobStats()["a"].TotalRuns)
}

func TestRunNow_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestRunNow_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "broken", schedule: "@hourly", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "boom", result.Error)

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	assert.Len(t, history.GetFailedResults(), 1)
}

func TestRunNow_CancelStopsRetries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(5, time.Hour))
	job := &fakeJob{name: "broken", schedule: "@hourly", failures: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunNow(ctx, "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, context.Canceled.Error(), result.Error)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
	assert.Error(t, s.RunJob("missing"))
}

func TestGetJobStats(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "ok", schedule: "@hourly"}))

	_, err := s.RunNow(context.Background(), "ok")
	require.NoError(t, err)
	_, err = s.RunNow(context.Background(), "ok")
	require.NoError(t, err)

	stats := s.GetJobStats()
	require.Contains(t, stats, "ok")

	st := stats["ok"]
	assert.Equal(t, "@hourly", st.Schedule)
	assert.Equal(t, 2, st.TotalRuns)
	assert.Equal(t, 2, st.SuccessCount)
	assert.Equal(t, 0, st.FailureCount)
	assert.InDelta(t, 1.0, st.SuccessRate, 1e-9)
	assert.NotNil(t, st.LastSuccess)
	assert.Nil(t, st.LastFailure)
}

func TestScheduledRun(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "tick", schedule: "* * * * * *"}
	require.NoError(t, s.AddJob(job))

	next, err := s.NextRun("tick")
	require.NoError(t, err)
	assert.True(t, next.IsZero()) // 시작 전에는 예정 시각 없음

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"0 0 * * * *", false},
		{"@daily", false},
		{"*/30 * * * * *", false},
		{"0 * * * *", true}, // seconds 필드 누락
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobHistory_Cap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}

func TestJobHistory_LastWhere(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &JobHistory{}
	h.AddResult(JobResult{StartTime: t0, Success: true})
	h.AddResult(JobResult{StartTime: t0.Add(time.Hour), Success: false})
	h.AddResult(JobResult{StartTime: t0.Add(2 * time.Hour), Success: false})

	ok, found := h.lastWhere(true)
	assert.True(t, found)
	assert.Equal(t, t0, ok.StartTime)

	bad, found := h.lastWhere(false)
	assert.True(t, found)
	assert.Equal(t, t0.Add(2*time.Hour), bad.StartTime)

	_, found = (&JobHistory{}).lastWhere(true)
	assert.False(t, found)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(3))
}
