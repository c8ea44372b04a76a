// Package config loads service settings from SIGMACHARTER_* environment
// variables over built-in defaults. Values are read once at startup and the
// resulting Config is treated as immutable afterwards.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sigmaforge/SixSigmaCharter/src/sigmachart"
)

// Config holds every runtime setting of the service.
type Config struct {
	ListenAddr string
	LogLevel   string
	MaxBatch   int
	Single     sigmachart.Options
	Multi      sigmachart.Options
}

const envPrefix = "SIGMACHARTER"

// Load reads the environment and applies defaults. It fails on values that
// would make the engine unusable rather than silently correcting them.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":1703")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_batch", 5)

	single := sigmachart.SingleOptions()
	multi := sigmachart.BatchOptions()
	v.SetDefault("single_row_width", single.RowWidth)
	v.SetDefault("single_row_height", single.RowHeight)
	v.SetDefault("single_samples_per_unit", single.SamplesPerUnit)
	v.SetDefault("multi_row_width", multi.RowWidth)
	v.SetDefault("multi_row_height", multi.RowHeight)
	v.SetDefault("multi_samples_per_unit", multi.SamplesPerUnit)

	cfg := Config{
		ListenAddr: v.GetString("listen_addr"),
		LogLevel:   v.GetString("log_level"),
		MaxBatch:   v.GetInt("max_batch"),
		Single: sigmachart.Options{
			RowWidth:       v.GetInt("single_row_width"),
			RowHeight:      v.GetInt("single_row_height"),
			SamplesPerUnit: v.GetInt("single_samples_per_unit"),
		},
		Multi: sigmachart.Options{
			RowWidth:       v.GetInt("multi_row_width"),
			RowHeight:      v.GetInt("multi_row_height"),
			SamplesPerUnit: v.GetInt("multi_samples_per_unit"),
		},
	}

	if cfg.MaxBatch < 1 {
		return Config{}, fmt.Errorf("config: max_batch must be at least 1, got %d", cfg.MaxBatch)
	}
	if cfg.ListenAddr == "" {
		return Config{}, fmt.Errorf("config: listen_addr must not be empty")
	}
	for _, o := range []struct {
		name string
		opts sigmachart.Options
	}{{"single", cfg.Single}, {"multi", cfg.Multi}} {
		if o.opts.RowWidth < 1 || o.opts.RowHeight < 1 || o.opts.SamplesPerUnit < 1 {
			return Config{}, fmt.Errorf("config: %s chart options must be positive, got %+v", o.name, o.opts)
		}
	}
	return cfg, nil
}
