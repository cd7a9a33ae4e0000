package config

import (
	"time"
)

// Config represents the complete shell configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Startup  StartupConfig  `mapstructure:"startup"`
	Shutdown ShutdownConfig `mapstructure:"shutdown"`
	Health   HealthConfig   `mapstructure:"health"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// BackendConfig describes how the backend server is launched
type BackendConfig struct {
	Command    string   `mapstructure:"command"`
	Args       []string `mapstructure:"args"`
	WorkingDir string   `mapstructure:"working_dir"`
	Env        []string `mapstructure:"env"`
	Port       int      `mapstructure:"port"`
	HealthPath string   `mapstructure:"health_path"`
}

// StartupConfig contains the startup notification settings
type StartupConfig struct {
	NotifyDelay time.Duration `mapstructure:"notify_delay"`
	AutoStart   bool          `mapstructure:"auto_start"`
}

// ShutdownConfig contains teardown settings
type ShutdownConfig struct {
	StopOnExit bool `mapstructure:"stop_on_exit"`
}

// HealthConfig contains health probe settings
type HealthConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MetricsConfig contains the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level           LogLevelConfig `mapstructure:"level"`
	TimestampFormat string         `mapstructure:"timestamp_format"`
	Color           bool           `mapstructure:"color"`
	File            LogFileConfig  `mapstructure:"file"`
}

// LogLevelConfig contains log levels for each component
type LogLevelConfig struct {
	Global  string `mapstructure:"global"`
	Shell   string `mapstructure:"shell"`
	Backend string `mapstructure:"backend"`
}

// LogFileConfig contains file logging settings
type LogFileConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig contains UI preferences
type UIConfig struct {
	MaxLogLines int `mapstructure:"max_log_lines"`
}
