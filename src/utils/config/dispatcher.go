package config

import (
	"time"

	"github.com/spf13/viper"
)

type Dispatcher struct {
	// How often the poller looks for due jobs
	PollerInterval time.Duration

	// Max jobs claimed in one poll
	MaxJobsPerRun int

	// PROCESSING jobs untouched for longer than this go back to PENDING
	VisibilityTimeout time.Duration

	// How often stale PROCESSING jobs are reclaimed
	ReclaimInterval time.Duration

	// Base delay before a failed job is retried, doubled on every attempt
	RetryBaseDelay time.Duration

	// Upper bound for the retry delay
	RetryMaxDelay time.Duration

	// Attempts after which a job is abandoned
	MaxAttempts int
}

func setDispatcherDefaults() {
	viper.SetDefault("Dispatcher.PollerInterval", "10s")
	viper.SetDefault("Dispatcher.MaxJobsPerRun", "50")
	viper.SetDefault("Dispatcher.VisibilityTimeout", "5m")
	viper.SetDefault("Dispatcher.ReclaimInterval", "1m")
	viper.SetDefault("Dispatcher.RetryBaseDelay", "30s")
	viper.SetDefault("Dispatcher.RetryMaxDelay", "30m")
	viper.SetDefault("Dispatcher.MaxAttempts", "10")
}
