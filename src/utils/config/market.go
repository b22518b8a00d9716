package config

import (
	"time"

	"github.com/spf13/viper"
)

type Market struct {
	// Platform fee in basis points, copied onto every new order
	FeeBps int64

	// Minimum time between proof submission and verification.
	// Keeps the post live for at least this long.
	RetentionWindow time.Duration
}

func setMarketDefaults() {
	viper.SetDefault("Market.FeeBps", "300")
	viper.SetDefault("Market.RetentionWindow", "5m")
}
