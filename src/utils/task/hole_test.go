package task

import (
	"sync"
	"testing"
	"time"

	"github.com/shillmarket/broker/src/utils/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestHoleTestSuite(t *testing.T) {
	suite.Run(t, new(HoleTestSuite))
}

type HoleTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *HoleTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.StopTimeout = 5 * time.Second
}

func (s *HoleTestSuite) TestBatching() {
	input := make(chan int)

	var mtx sync.Mutex
	var batches [][]int

	hole := NewHole[int](s.config, "test-hole").
		WithInputChannel(input).
		WithBatchSize(3).
		WithBackoff(time.Second, 10*time.Millisecond).
		WithOnFlush(time.Hour, func(batch []int) error {
			mtx.Lock()
			defer mtx.Unlock()
			batches = append(batches, batch)
			return nil
		})

	err := hole.Start()
	require.Nil(s.T(), err)

	for i := 1; i <= 7; i++ {
		input <- i
	}

	// Closed input flushes the leftovers and finishes the task
	close(input)
	<-hole.CtxRunning.Done()

	mtx.Lock()
	defer mtx.Unlock()

	var total int
	for _, batch := range batches {
		total += len(batch)
	}
	require.Equal(s.T(), 7, total)
	require.Equal(s.T(), []int{1, 2, 3}, batches[0])
}
