package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestDefaults() {
	config := Default()
	require.NotNil(s.T(), config)

	require.Equal(s.T(), ":7777", config.RESTListenAddress)
	require.Equal(s.T(), "0.0.0.0:4000", config.Api.ListenAddress)

	require.Equal(s.T(), int64(300), config.Market.FeeBps)
	require.Equal(s.T(), 5*time.Minute, config.Market.RetentionWindow)

	require.Equal(s.T(), 50, config.Dispatcher.MaxJobsPerRun)
	require.Equal(s.T(), 10, config.Dispatcher.MaxAttempts)
	require.Equal(s.T(), 30*time.Second, config.Dispatcher.RetryBaseDelay)
	require.Equal(s.T(), 30*time.Minute, config.Dispatcher.RetryMaxDelay)

	require.Equal(s.T(), 10, config.Verifier.NumWorkers)
	require.Equal(s.T(), "shillmarket/settlements", config.Verifier.EventsChannelName)
}

func (s *ConfigTestSuite) TestEnvOverride() {
	s.T().Setenv("SHILLMARKET_MARKET_FEE_BPS", "250")
	s.T().Setenv("SHILLMARKET_DISPATCHER_MAX_ATTEMPTS", "3")
	s.T().Setenv("SHILLMARKET_VERIFIER_EVENTS_CHANNEL_NAME", "test/settlements")

	config, err := Load("")
	require.Nil(s.T(), err)

	require.Equal(s.T(), int64(250), config.Market.FeeBps)
	require.Equal(s.T(), 3, config.Dispatcher.MaxAttempts)
	require.Equal(s.T(), "test/settlements", config.Verifier.EventsChannelName)
}
