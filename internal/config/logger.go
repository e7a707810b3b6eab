package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level string
	JSON  bool
	File  string

	file *os.File
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("UNARCHIVE_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("UNARCHIVE_LOG_JSON"),
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Also append JSON logs to this file",
			Destination: &c.File,
			Sources:     cli.EnvVars("UNARCHIVE_LOG_FILE"),
		},
	}
}

// Configure returns a logger that writes to w, and to the log file when one is set.
// Close must be called to release the log file.
func (c *Logger) Configure(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColor(!color.NoColor),
		)
	}

	if c.File == "" {
		return slog.New(handler), nil
	}

	file, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open log file", goerr.V("file", c.File))
	}
	c.file = file
	return slog.New(slogmulti.Fanout(handler, slog.NewJSONHandler(file, opts))), nil
}

// Close closes the log file
func (c *Logger) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	if err != nil {
		return goerr.Wrap(err, "failed to close log file", goerr.V("file", c.File))
	}
	return nil
}
