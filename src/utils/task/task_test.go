package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shillmarket/broker/src/utils/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.StopTimeout = 5 * time.Second
}

func (s *TaskTestSuite) TestLifecycle() {
	var counter atomic.Int64

	tsk := NewTask(s.config, "test-task").
		WithPeriodicSubtaskFunc(10*time.Millisecond, func() error {
			counter.Add(1)
			return nil
		})

	err := tsk.Start()
	require.Nil(s.T(), err)

	time.Sleep(100 * time.Millisecond)
	tsk.StopWait()
	<-tsk.CtxRunning.Done()

	require.GreaterOrEqual(s.T(), counter.Load(), int64(1))
}

func (s *TaskTestSuite) TestRepeatedSubtask() {
	var counter atomic.Int64

	// Long period, all runs come from repeat=true
	tsk := NewTask(s.config, "test-task").
		WithRepeatedSubtaskFunc(time.Hour, func() (bool, error) {
			return counter.Add(1) < 3, nil
		})

	err := tsk.Start()
	require.Nil(s.T(), err)

	require.Eventually(s.T(), func() bool {
		return counter.Load() == 3
	}, time.Second, 5*time.Millisecond)

	tsk.StopWait()
	<-tsk.CtxRunning.Done()
}

func (s *TaskTestSuite) TestWorkerPool() {
	var counter atomic.Int64
	var tsk *Task

	tsk = NewTask(s.config, "test-task").
		WithWorkerPool(2, 10).
		WithSubtaskFunc(func() error {
			for i := 0; i < 5; i++ {
				tsk.SubmitToWorker(func() {
					counter.Add(1)
				})
			}
			return nil
		})

	err := tsk.Start()
	require.Nil(s.T(), err)

	tsk.StopWait()
	<-tsk.CtxRunning.Done()

	// Pool is drained before the task finishes
	require.Equal(s.T(), int64(5), counter.Load())
}

func (s *TaskTestSuite) TestRetrySucceedsEventually() {
	var attempts int

	err := NewRetry().
		WithContext(context.Background()).
		WithMaxElapsedTime(5 * time.Second).
		WithMaxInterval(time.Millisecond).
		Run(func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})

	require.Nil(s.T(), err)
	require.Equal(s.T(), 3, attempts)
}

func (s *TaskTestSuite) TestRetryPermanentError() {
	var attempts int
	sentinel := errors.New("fatal")

	err := NewRetry().
		WithContext(context.Background()).
		WithMaxElapsedTime(5 * time.Second).
		WithMaxInterval(time.Millisecond).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			require.True(s.T(), isDurationAcceptable)
			return backoff.Permanent(err)
		}).
		Run(func() error {
			attempts++
			return sentinel
		})

	require.ErrorIs(s.T(), err, sentinel)
	require.Equal(s.T(), 1, attempts)
}
