package common

import (
	"context"

	"github.com/shillmarket/broker/src/utils/config"
)

type contextKey int

const configKey contextKey = iota

// SetConfig attaches the global configuration to the context
func SetConfig(ctx context.Context, v *config.Config) context.Context {
	return context.WithValue(ctx, configKey, v)
}

func GetConfig(ctx context.Context) *config.Config {
	v, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return v
}
