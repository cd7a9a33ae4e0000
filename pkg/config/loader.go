package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Load loads configuration from file with the following priority:
// 1. Explicit path via configPath parameter
// 2. ./posshell.yaml (current directory)
// 3. ./config/posshell.yaml
// 4. ~/.posshell/posshell.yaml (user home)
// 5. /etc/posshell/posshell.yaml (system-wide)
// Falls back to defaults if no config file is found
func Load(fs afero.Fs, configPath string, logger zerolog.Logger) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName("posshell")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".posshell"))
		}
		v.AddConfigPath("/etc/posshell")
	}

	// Environment variables use the POSSHELL_ prefix with underscores for
	// nesting, e.g. POSSHELL_BACKEND_PORT=9090.
	v.SetEnvPrefix("POSSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, DefaultConfig())

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug().
				Str("searchPaths", "., ./config, ~/.posshell, /etc/posshell").
				Msg("No config file found in search paths, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
		logger.Debug().Str("configFile", configFileUsed).Msg("Config file loaded")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyLogLevelInheritance(cfg)

	logger.Info().
		Bool("configFileFound", configFileUsed != "").
		Str("configFile", configFileUsed).
		Interface("backend", cfg.Backend).
		Interface("startup", cfg.Startup).
		Interface("health", cfg.Health).
		Interface("logging", cfg.Logging).
		Msg("Complete effective configuration")

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("backend.command", cfg.Backend.Command)
	v.SetDefault("backend.args", cfg.Backend.Args)
	v.SetDefault("backend.working_dir", cfg.Backend.WorkingDir)
	v.SetDefault("backend.env", cfg.Backend.Env)
	v.SetDefault("backend.port", cfg.Backend.Port)
	v.SetDefault("backend.health_path", cfg.Backend.HealthPath)
	v.SetDefault("startup.notify_delay", cfg.Startup.NotifyDelay)
	v.SetDefault("startup.auto_start", cfg.Startup.AutoStart)
	v.SetDefault("shutdown.stop_on_exit", cfg.Shutdown.StopOnExit)
	v.SetDefault("health.enabled", cfg.Health.Enabled)
	v.SetDefault("health.interval", cfg.Health.Interval)
	v.SetDefault("health.timeout", cfg.Health.Timeout)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("logging.level.global", cfg.Logging.Level.Global)
	v.SetDefault("logging.level.shell", cfg.Logging.Level.Shell)
	v.SetDefault("logging.level.backend", cfg.Logging.Level.Backend)
	v.SetDefault("logging.timestamp_format", cfg.Logging.TimestampFormat)
	v.SetDefault("logging.color", cfg.Logging.Color)
	v.SetDefault("logging.file.enabled", cfg.Logging.File.Enabled)
	v.SetDefault("logging.file.path", cfg.Logging.File.Path)
	v.SetDefault("ui.max_log_lines", cfg.UI.MaxLogLines)
}

// applyLogLevelInheritance applies log level inheritance
// If a component-specific level is empty, it inherits from global
func applyLogLevelInheritance(cfg *Config) {
	if cfg.Logging.Level.Shell == "" {
		cfg.Logging.Level.Shell = cfg.Logging.Level.Global
	}
	if cfg.Logging.Level.Backend == "" {
		cfg.Logging.Level.Backend = cfg.Logging.Level.Global
	}
}

// ArtifactPath returns the jar passed after -jar in the backend arguments,
// resolved against the working directory. It is empty when the command
// does not run a jar.
func ArtifactPath(cfg *Config) string {
	args := cfg.Backend.Args
	for i := 0; i+1 < len(args); i++ {
		if args[i] != "-jar" {
			continue
		}
		jar := args[i+1]
		if filepath.IsAbs(jar) || cfg.Backend.WorkingDir == "" {
			return jar
		}
		return filepath.Join(cfg.Backend.WorkingDir, jar)
	}
	return ""
}

// ArtifactExists reports whether the backend jar is present. A command
// without a jar always passes.
func ArtifactExists(fs afero.Fs, cfg *Config) (string, bool) {
	path := ArtifactPath(cfg)
	if path == "" {
		return "", true
	}
	info, err := fs.Stat(path)
	if err != nil {
		return path, false
	}
	return path, !info.IsDir()
}
