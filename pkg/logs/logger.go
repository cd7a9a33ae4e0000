package logs

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls how log lines are rendered.
type Options struct {
	TimeFormat string
	Color      bool
	// FilePath, when set, receives a copy of every line.
	FilePath string
}

// NewLogger creates a zerolog logger that renders console lines into out.
// With the shell running, out is a LogWriter so logs never write over the
// terminal UI.
func NewLogger(out io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		logFile, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		out = io.MultiWriter(logFile, out)
		closer = logFile
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: opts.TimeFormat,
		NoColor:    !opts.Color,
	}

	logger := zerolog.New(consoleWriter).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// WithLevel returns parent filtered at level. An empty or unknown level
// keeps the parent's level.
func WithLevel(parent zerolog.Logger, level string) zerolog.Logger {
	if level == "" {
		return parent
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return parent
	}
	return parent.Level(lvl)
}

// Component returns a child logger tagged with the component name and
// filtered at level.
func Component(parent zerolog.Logger, name, level string) zerolog.Logger {
	return WithLevel(parent.With().Str("component", name).Logger(), level)
}
