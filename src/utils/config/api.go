package config

import (
	"time"

	"github.com/spf13/viper"
)

type Api struct {
	// Address the public REST API listens on
	ListenAddress string

	// Hard limit for handling a single request
	RequestTimeout time.Duration
}

func setApiDefaults() {
	viper.SetDefault("Api.ListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Api.RequestTimeout", "30s")
}
