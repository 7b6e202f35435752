package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Features FeatureConfig
	UI       UIConfig
}

// ServerConfig holds tracking-server connection settings.
type ServerConfig struct {
	URL            string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// FeatureConfig holds feature toggles.
type FeatureConfig struct {
	Traces        bool
	UnifiedCharts bool `mapstructure:"unified_charts"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	WideBreakpoint int `mapstructure:"wide_breakpoint"`
	MaxChartSeries int `mapstructure:"max_chart_series"`
}

// Load reads configuration from file and env. Env var overrides use prefix RUNBOARD_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.url", "http://localhost:5000")
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("features.traces", false)
	v.SetDefault("features.unified_charts", false)
	v.SetDefault("ui.wide_breakpoint", 120)
	v.SetDefault("ui.max_chart_series", 40)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RUNBOARD_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "runboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RUNBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
