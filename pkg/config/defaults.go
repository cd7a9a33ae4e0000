package config

import "time"

// DefaultConfig returns a Config that launches the packaged backend jar
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Command:    "java",
			Args:       []string{"-jar", "backend/target/tauri-pos-app-0.1.0.jar"},
			WorkingDir: "", // the shell's working directory
			Port:       8080,
			HealthPath: "/api/pos/health",
		},
		Startup: StartupConfig{
			NotifyDelay: 2 * time.Second,
			AutoStart:   false,
		},
		Shutdown: ShutdownConfig{
			StopOnExit: true,
		},
		Health: HealthConfig{
			Enabled:  true,
			Interval: 5 * time.Second,
			Timeout:  2 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9464,
		},
		Logging: LoggingConfig{
			Level: LogLevelConfig{
				Global:  "info",
				Shell:   "", // inherits global
				Backend: "", // inherits global
			},
			TimestampFormat: "15:04:05",
			Color:           true,
			File: LogFileConfig{
				Enabled: false,
				Path:    "posshell.log",
			},
		},
		UI: UIConfig{
			MaxLogLines: 5000,
		},
	}
}
