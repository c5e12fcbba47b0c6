package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the HTTP API server.
type ServeConfig struct {
	Config
	Listen      string
	CORSOrigins []string
	QuoteTTL    time.Duration
	MaxParallel int
}

// LoadServe merges config file, environment variables, and flags into
// ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	base, err := Load(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}

	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}
	v.SetDefault("listen", ":8080")
	v.SetDefault("quote-ttl", 3*time.Second)
	v.SetDefault("max-parallel", 8)

	cfg := ServeConfig{
		Config:      base,
		Listen:      v.GetString("listen"),
		CORSOrigins: getStringSlice(v, "cors-origins"),
		QuoteTTL:    v.GetDuration("quote-ttl"),
		MaxParallel: v.GetInt("max-parallel"),
	}

	return cfg, nil
}
