package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/carsonvertex/tauri-pos-app/pkg/config"
	"github.com/carsonvertex/tauri-pos-app/pkg/logs"
	"github.com/carsonvertex/tauri-pos-app/pkg/shell"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	flagConfigFilePath string // value of --config flag
	flagHeadless       bool   // value of --headless flag
)

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is posshell.yaml in ., ./config, ~/.posshell or /etc/posshell")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "run without the terminal UI")

	// never print messages
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "posshell: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "posshell",
	Short:        "Desktop shell that supervises the POS backend server",
	SilenceUsage: true,
	RunE:         doRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version prints build information",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("posshell: version info not available")
			return
		}

		fmt.Printf("posshell: %s\n", info.Main.Version)
		fmt.Printf("go:       %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:   %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:     %s\n", s.Value)
			case "vcs.modified":
				fmt.Printf("dirty:    %s\n", s.Value)
			}
		}
	},
}

func doRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()

	// The config is read before any logger exists; report what it found once
	// the real logger is up.
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
	cfg, err := config.Load(fs, flagConfigFilePath, bootLogger)
	if err != nil {
		return err
	}

	filePath := ""
	if cfg.Logging.File.Enabled {
		filePath = cfg.Logging.File.Path
	}
	logOpts := logs.Options{
		TimeFormat: cfg.Logging.TimestampFormat,
		Color:      cfg.Logging.Color,
		FilePath:   filePath,
	}

	if flagHeadless {
		return runHeadless(ctx, fs, cfg, logOpts)
	}
	return runUI(ctx, fs, cfg, logOpts)
}

func runHeadless(ctx context.Context, fs afero.Fs, cfg *config.Config, logOpts logs.Options) error {
	logger, closer, err := logs.NewLogger(os.Stderr, logOpts)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	app := shell.New(cfg, logger)
	app.Preflight(fs)
	logger.Info().Msg("Running headless, press Ctrl+C to stop")
	return app.RunHeadless(ctx)
}

func runUI(ctx context.Context, fs afero.Fs, cfg *config.Config, logOpts logs.Options) error {
	// Logs are held until the program is attached so nothing is written
	// over the terminal UI.
	lw := logs.NewLogWriter(nil)
	logger, closer, err := logs.NewLogger(lw, logOpts)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	app := shell.New(cfg, logger)
	app.Preflight(fs)

	return app.RunUI(ctx, lw,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
}
