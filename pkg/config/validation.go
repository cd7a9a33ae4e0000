package config

import (
	"fmt"
	"strings"
)

// validate validates the configuration
func validate(cfg *Config) error {
	if err := validateBackend(cfg.Backend); err != nil {
		return err
	}

	if err := validatePorts(cfg); err != nil {
		return err
	}

	if cfg.Startup.NotifyDelay < 0 {
		return fmt.Errorf("startup.notify_delay must not be negative, got %s", cfg.Startup.NotifyDelay)
	}

	if cfg.Health.Enabled {
		if cfg.Health.Interval <= 0 {
			return fmt.Errorf("health.interval must be positive when health checks are enabled")
		}
		if cfg.Health.Timeout <= 0 {
			return fmt.Errorf("health.timeout must be positive when health checks are enabled")
		}
	}

	if err := validateLogLevels(cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Logging.File.Enabled && cfg.Logging.File.Path == "" {
		return fmt.Errorf("logging.file.path is required when file logging is enabled")
	}

	if cfg.UI.MaxLogLines < 1 {
		return fmt.Errorf("max_log_lines must be at least 1")
	}

	return nil
}

// validateBackend validates the backend launch settings
func validateBackend(backend BackendConfig) error {
	if strings.TrimSpace(backend.Command) == "" {
		return fmt.Errorf("backend.command must not be empty")
	}
	if !strings.HasPrefix(backend.HealthPath, "/") {
		return fmt.Errorf("invalid backend.health_path '%s': must start with /", backend.HealthPath)
	}
	for _, kv := range backend.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("invalid backend.env entry '%s': must be KEY=value", kv)
		}
	}
	return nil
}

// validatePorts validates all port configurations
func validatePorts(cfg *Config) error {
	portMap := make(map[int]string)

	checkPort := func(port int, name string) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %d for %s: must be between 1 and 65535", port, name)
		}
		if existing, exists := portMap[port]; exists {
			return fmt.Errorf("port conflict: %d is used by both %s and %s", port, existing, name)
		}
		portMap[port] = name
		return nil
	}

	if err := checkPort(cfg.Backend.Port, "backend.port"); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		if err := checkPort(cfg.Metrics.Port, "metrics.port"); err != nil {
			return err
		}
	}

	return nil
}

// validateLogLevels validates log level settings
func validateLogLevels(levels LogLevelConfig) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	checkLevel := func(level, component string) error {
		if level == "" {
			return nil // Empty is valid (inherits)
		}
		levelLower := strings.ToLower(level)
		if !validLevels[levelLower] {
			return fmt.Errorf("invalid log level '%s' for %s: must be one of: trace, debug, info, warn, error, fatal", level, component)
		}
		return nil
	}

	if err := checkLevel(levels.Global, "global"); err != nil {
		return err
	}
	if err := checkLevel(levels.Shell, "shell"); err != nil {
		return err
	}
	if err := checkLevel(levels.Backend, "backend"); err != nil {
		return err
	}

	return nil
}
