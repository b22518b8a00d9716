package config

import (
	"time"

	"github.com/spf13/viper"
)

type Verifier struct {
	// Num of workers that verify orders in parallel
	NumWorkers int

	// Max num of verification requests in worker's queue
	WorkerQueueSize int

	// How many audit rows are written in one batch
	AuditBatchSize int

	// Max time audit rows may wait for a full batch
	AuditFlushInterval time.Duration

	// Max interval between audit flush retries
	AuditMaxBackoffInterval time.Duration

	// How often the reconciler compares escrow phases with order statuses
	ReconcileInterval time.Duration

	// Redis channel settlement events are published to
	EventsChannelName string
}

func setVerifierDefaults() {
	viper.SetDefault("Verifier.NumWorkers", "10")
	viper.SetDefault("Verifier.WorkerQueueSize", "100")
	viper.SetDefault("Verifier.AuditBatchSize", "50")
	viper.SetDefault("Verifier.AuditFlushInterval", "5s")
	viper.SetDefault("Verifier.AuditMaxBackoffInterval", "30s")
	viper.SetDefault("Verifier.ReconcileInterval", "10m")
	viper.SetDefault("Verifier.EventsChannelName", "shillmarket/settlements")
}
