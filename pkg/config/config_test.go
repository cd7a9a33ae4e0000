package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.Command != "java" {
		t.Errorf("expected backend command 'java', got '%s'", cfg.Backend.Command)
	}
	if strings.Join(cfg.Backend.Args, " ") != "-jar backend/target/tauri-pos-app-0.1.0.jar" {
		t.Errorf("unexpected backend args %v", cfg.Backend.Args)
	}
	if cfg.Backend.Port != 8080 {
		t.Errorf("expected backend port 8080, got %d", cfg.Backend.Port)
	}
	if cfg.Startup.NotifyDelay != 2*time.Second {
		t.Errorf("expected notify delay 2s, got %v", cfg.Startup.NotifyDelay)
	}
	if cfg.Startup.AutoStart {
		t.Error("auto start must be off by default")
	}
	if !cfg.Shutdown.StopOnExit {
		t.Error("stop on exit must be on by default")
	}
	if cfg.Health.Interval != 5*time.Second {
		t.Errorf("expected health interval 5s, got %v", cfg.Health.Interval)
	}
	if cfg.Logging.Level.Global != "info" {
		t.Errorf("expected global log level 'info', got '%s'", cfg.Logging.Level.Global)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Backend.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Backend.Port)
	}
	if cfg.Logging.Level.Shell != "info" || cfg.Logging.Level.Backend != "info" {
		t.Errorf("component levels must inherit global, got shell=%q backend=%q",
			cfg.Logging.Level.Shell, cfg.Logging.Level.Backend)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	configPath := "/etc/pos/posshell.yaml"

	configContent := `
backend:
  port: 9090
  working_dir: /opt/pos
startup:
  notify_delay: 500ms
  auto_start: true
logging:
  level:
    global: debug
    backend: warn
`
	if err := afero.WriteFile(fs, configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(fs, configPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Backend.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Backend.Port)
	}
	if cfg.Backend.WorkingDir != "/opt/pos" {
		t.Errorf("expected working dir /opt/pos, got %q", cfg.Backend.WorkingDir)
	}
	if cfg.Startup.NotifyDelay != 500*time.Millisecond {
		t.Errorf("expected notify delay 500ms, got %v", cfg.Startup.NotifyDelay)
	}
	if !cfg.Startup.AutoStart {
		t.Error("expected auto start to be enabled")
	}
	if cfg.Logging.Level.Shell != "debug" {
		t.Errorf("expected shell level to inherit 'debug', got '%s'", cfg.Logging.Level.Shell)
	}
	if cfg.Logging.Level.Backend != "warn" {
		t.Errorf("expected backend level 'warn', got '%s'", cfg.Logging.Level.Backend)
	}

	// Verify defaults are still applied for non-overridden values
	if cfg.Backend.Command != "java" {
		t.Errorf("expected default command 'java', got '%s'", cfg.Backend.Command)
	}
	if cfg.Backend.HealthPath != "/api/pos/health" {
		t.Errorf("expected default health path, got '%s'", cfg.Backend.HealthPath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("POSSHELL_BACKEND_PORT", "9191")
	t.Setenv("POSSHELL_STARTUP_NOTIFY_DELAY", "3s")

	cfg, err := Load(afero.NewMemMapFs(), "", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Backend.Port != 9191 {
		t.Errorf("expected port 9191 from env, got %d", cfg.Backend.Port)
	}
	if cfg.Startup.NotifyDelay != 3*time.Second {
		t.Errorf("expected notify delay 3s from env, got %v", cfg.Startup.NotifyDelay)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(afero.NewMemMapFs(), "/nope/posshell.yaml", zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/posshell.yaml", []byte("backend:\n  port: 70000\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(fs, "/posshell.yaml", zerolog.Nop())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "empty command",
			modify: func(c *Config) {
				c.Backend.Command = "  "
			},
			wantErr: true,
		},
		{
			name: "invalid port range",
			modify: func(c *Config) {
				c.Backend.Port = 0
			},
			wantErr: true,
		},
		{
			name: "port conflict",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Port = 8080
			},
			wantErr: true,
		},
		{
			name: "disabled metrics port is ignored",
			modify: func(c *Config) {
				c.Metrics.Port = 8080
			},
			wantErr: false,
		},
		{
			name: "negative notify delay",
			modify: func(c *Config) {
				c.Startup.NotifyDelay = -time.Second
			},
			wantErr: true,
		},
		{
			name: "zero notify delay",
			modify: func(c *Config) {
				c.Startup.NotifyDelay = 0
			},
			wantErr: false,
		},
		{
			name: "zero health interval",
			modify: func(c *Config) {
				c.Health.Interval = 0
			},
			wantErr: true,
		},
		{
			name: "zero health interval with health disabled",
			modify: func(c *Config) {
				c.Health.Enabled = false
				c.Health.Interval = 0
			},
			wantErr: false,
		},
		{
			name: "relative health path",
			modify: func(c *Config) {
				c.Backend.HealthPath = "api/pos/health"
			},
			wantErr: true,
		},
		{
			name: "malformed env entry",
			modify: func(c *Config) {
				c.Backend.Env = []string{"SPRING_PROFILES_ACTIVE"}
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Logging.Level.Backend = "loud"
			},
			wantErr: true,
		},
		{
			name: "file logging without path",
			modify: func(c *Config) {
				c.Logging.File.Enabled = true
				c.Logging.File.Path = ""
			},
			wantErr: true,
		},
		{
			name: "no log lines",
			modify: func(c *Config) {
				c.UI.MaxLogLines = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := ArtifactPath(cfg); got != "backend/target/tauri-pos-app-0.1.0.jar" {
		t.Errorf("unexpected artifact path %q", got)
	}

	cfg.Backend.WorkingDir = "/opt/pos"
	if got := ArtifactPath(cfg); got != "/opt/pos/backend/target/tauri-pos-app-0.1.0.jar" {
		t.Errorf("unexpected artifact path %q", got)
	}

	cfg.Backend.Args = []string{"run"}
	if got := ArtifactPath(cfg); got != "" {
		t.Errorf("expected no artifact, got %q", got)
	}
}

func TestArtifactExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := DefaultConfig()

	path, ok := ArtifactExists(fs, cfg)
	if ok {
		t.Fatalf("jar %s must be reported missing", path)
	}

	if err := afero.WriteFile(fs, path, []byte("PK"), 0644); err != nil {
		t.Fatalf("failed to write jar: %v", err)
	}
	if _, ok := ArtifactExists(fs, cfg); !ok {
		t.Error("expected jar to be found")
	}

	cfg.Backend.Args = nil
	if _, ok := ArtifactExists(fs, cfg); !ok {
		t.Error("a command without a jar always passes")
	}
}
