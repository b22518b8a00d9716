package config

import (
	"time"

	"github.com/spf13/viper"
)

type Escrow struct {
	// Base URL of the custodial escrow ledger API
	Url string

	// Timeout for a single ledger request
	RequestTimeout time.Duration
}

func setEscrowDefaults() {
	viper.SetDefault("Escrow.Url", "http://localhost:8899")
	viper.SetDefault("Escrow.RequestTimeout", "30s")
}
