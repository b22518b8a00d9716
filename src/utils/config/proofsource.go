package config

import (
	"time"

	"github.com/spf13/viper"
)

type ProofSource struct {
	// Base URL of the post lookup API
	Url string

	// API key sent with every request
	ApiKey string

	// Timeout for a single request
	RequestTimeout time.Duration

	// Requests per second the client will not exceed
	RateLimit float64

	// Burst allowed on top of the rate limit
	RateLimitBurst int

	// How long author profiles are cached
	AuthorCacheTTL time.Duration
}

func setProofSourceDefaults() {
	viper.SetDefault("ProofSource.Url", "https://api.twitterapi.io/twitter")
	viper.SetDefault("ProofSource.ApiKey", "")
	viper.SetDefault("ProofSource.RequestTimeout", "30s")
	viper.SetDefault("ProofSource.RateLimit", "5")
	viper.SetDefault("ProofSource.RateLimitBurst", "1")
	viper.SetDefault("ProofSource.AuthorCacheTTL", "10m")
}
