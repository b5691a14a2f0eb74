package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/pkg/config"
	"github.com/pcroft/gridiron/pkg/logger"
)

type stubJob struct {
	name string
	err  error
	done chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return "@weekly" }
func (j *stubJob) Run(context.Context) error {
	defer close(j.done)
	return j.err
}

func testScheduler() *Scheduler {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	s := New(log)
	s.maxRetries = 0
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsDuplicate(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "refresh", done: make(chan struct{})}))
	err := s.AddJob(&stubJob{name: "refresh", done: make(chan struct{})})
	assert.Error(t, err)

	assert.Equal(t, []string{"refresh"}, s.Jobs())
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := testScheduler()

	ok := &stubJob{name: "ok", done: make(chan struct{})}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.RunJob("ok"))
	<-ok.done

	// runJob writes history after Run returns; wait for it.
	assert.Eventually(t, func() bool {
		h, err := s.History("ok")
		return err == nil && len(h.Results) == 1 && h.Results[0].Success
	}, time.Second, 10*time.Millisecond)
}

func TestRunJobRecordsFailure(t *testing.T) {
	s := testScheduler()

	bad := &stubJob{name: "bad", err: errors.New("upstream down"), done: make(chan struct{})}
	require.NoError(t, s.AddJob(bad))
	require.NoError(t, s.RunJob("bad"))
	<-bad.done

	assert.Eventually(t, func() bool {
		h, err := s.History("bad")
		if err != nil || len(h.Results) != 1 {
			return false
		}
		r := h.Results[0]
		return !r.Success && r.Error == "upstream down"
	}, time.Second, 10*time.Millisecond)

	h, _ := s.History("bad")
	assert.Equal(t, 0.0, h.SuccessRate())
}

func TestRunJobUnknown(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.RunJob("nope"))
}
