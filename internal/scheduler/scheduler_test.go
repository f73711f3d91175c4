package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/service"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRunner) RunCycle(context.Context) (*service.CycleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.CycleResult{CycleID: uuid.New(), Stats: service.NewCycleStats(0)}, nil
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) Refresh(context.Context) (*service.RatingState, error) {
	f.calls++
	return &service.RatingState{SnapshotID: uuid.New(), Ratings: elo.NewSnapshot(1500, map[string]float64{"Chiefs": 1510})}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestScheduleRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, nil, quietLogger())
	assert.Error(t, s.ScheduleEvaluation("not a cron"))
}

func TestScheduleAcceptsSecondsField(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, nil, quietLogger())
	assert.NoError(t, s.ScheduleEvaluation("0 */30 * * * *"))
	assert.NoError(t, s.ScheduleEvaluation("*/15 * * * *"))
	assert.Len(t, s.Entries(), 2)
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, nil, quietLogger())
	assert.Error(t, s.Start())
}

func TestRatingsRefreshRequiresRefresher(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, nil, quietLogger())
	assert.Error(t, s.ScheduleRatingsRefresh("@daily"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, &fakeRefresher{}, quietLogger())
	require.NoError(t, s.ScheduleEvaluation("@every 1h"))
	require.NoError(t, s.ScheduleRatingsRefresh("@daily"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleEvaluation("@every 1h"))

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 2*time.Second)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
	assert.NoError(t, s.Stop())
}

func TestScheduledJobsInvokeServices(t *testing.T) {
	runner := &fakeRunner{}
	refresher := &fakeRefresher{}
	s := NewScheduler(runner, refresher, quietLogger())
	require.NoError(t, s.ScheduleEvaluation("@every 1h"))
	require.NoError(t, s.ScheduleRatingsRefresh("@daily"))

	for _, entry := range s.Entries() {
		entry.WrappedJob.Run()
	}

	assert.Equal(t, 1, runner.Calls())
	assert.Equal(t, 1, refresher.calls)
}

func TestScheduledJobFailureIsLogged(t *testing.T) {
	runner := &fakeRunner{err: errors.New("feed down")}
	s := NewScheduler(runner, nil, quietLogger())
	require.NoError(t, s.ScheduleEvaluation("@every 1h"))

	assert.NotPanics(t, func() { s.Entries()[0].WrappedJob.Run() })
	assert.Equal(t, 1, runner.Calls())
}

func TestRunNow(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(runner, nil, quietLogger())

	result, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1, runner.Calls())
}
