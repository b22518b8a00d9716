package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRetryDelayTestSuite(t *testing.T) {
	suite.Run(t, new(RetryDelayTestSuite))
}

type RetryDelayTestSuite struct {
	suite.Suite
}

func (s *RetryDelayTestSuite) TestDoubling() {
	base := 30 * time.Second
	max := 30 * time.Minute

	require.Equal(s.T(), 30*time.Second, RetryDelay(base, max, 0))
	require.Equal(s.T(), time.Minute, RetryDelay(base, max, 1))
	require.Equal(s.T(), 2*time.Minute, RetryDelay(base, max, 2))
	require.Equal(s.T(), 16*time.Minute, RetryDelay(base, max, 5))
}

func (s *RetryDelayTestSuite) TestCap() {
	base := 30 * time.Second
	max := 30 * time.Minute

	require.Equal(s.T(), max, RetryDelay(base, max, 6))
	require.Equal(s.T(), max, RetryDelay(base, max, 20))

	// Never overflows for absurd attempt counts
	require.Equal(s.T(), max, RetryDelay(base, max, 1000))
}

func (s *RetryDelayTestSuite) TestMonotonic() {
	base := time.Second
	max := time.Hour

	prev := time.Duration(0)
	for attempts := 0; attempts < 30; attempts++ {
		delay := RetryDelay(base, max, attempts)
		require.GreaterOrEqual(s.T(), delay, prev)
		require.LessOrEqual(s.T(), delay, max)
		prev = delay
	}
}
