package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Defacto2/unarchive"
	"github.com/Defacto2/unarchive/command"
	"github.com/Defacto2/unarchive/internal/config"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Version of the unarchive program.
var Version = "0.1.0"

// Exit codes of the unarchive program.
const (
	ExitOK         = 0   // every archive was extracted or there were none
	ExitIncomplete = 1   // one or more archives failed to extract
	ExitFatal      = 2   // bad usage, configuration, source or destination
	ExitInterrupt  = 130 // the run was cancelled by a signal
)

// ExitCode returns the program exit code for the error returned by Run.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, unarchive.ErrIncomplete):
		return ExitIncomplete
	case errors.Is(err, context.Canceled):
		return ExitInterrupt
	}
	return ExitFatal
}

// Run runs the CLI application using the standard streams.
func Run(ctx context.Context, args []string) error {
	return New(os.Stdin, os.Stdout, os.Stderr).Run(ctx, args)
}

// App is the unarchive command and its streams.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// New returns the CLI application that reads the prompt answer from in,
// prints the report to out and logs to errOut.
func New(in io.Reader, out, errOut io.Writer) *App {
	return &App{in: in, out: out, errOut: errOut}
}

// Run parses the args and extracts the archives.
func (a *App) Run(ctx context.Context, args []string) error {
	var logger *slog.Logger
	cmd := a.command(&logger)
	if err := cmd.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		if ExitCode(err) == ExitFatal {
			logger.Error("CLI execution failed", slog.Any("error", err))
		}
		return err
	}
	return nil
}

func (a *App) command(logger **slog.Logger) *cli.Command {
	var (
		loggerCfg config.Logger
		cfg       config.Config
	)
	flags := append(cfg.Flags(), loggerCfg.Flags()...)

	return &cli.Command{
		Name:      "unarchive",
		Usage:     "Extract every archive in a directory into one destination",
		ArgsUsage: "[source-dir]",
		Version:   Version,
		Flags:     flags,
		Writer:    a.out,
		ErrWriter: a.errOut,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			l, err := loggerCfg.Configure(a.errOut)
			if err != nil {
				return nil, err
			}
			*logger = l
			return ctxlog.With(ctx, l), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return loggerCfg.Close()
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() > 1 {
				return goerr.New("too many arguments", goerr.V("args", c.Args().Slice()))
			}
			if cfg.Path != "" {
				f, err := config.Load(cfg.Path)
				if err != nil {
					return err
				}
				cfg.Merge(f, c.IsSet)
			}
			source := c.Args().First()
			if source == "" {
				var err error
				if source, err = readSource(a.in, a.out); err != nil {
					return goerr.Wrap(err, "failed to read the source directory")
				}
			}
			return a.extract(ctx, &cfg, source)
		},
	}
}

func (a *App) extract(ctx context.Context, cfg *config.Config, source string) error {
	logger := ctxlog.From(ctx)
	dest := cfg.Dest
	if dest == "" {
		dest = filepath.Join(source, unarchive.DirName)
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Tools = command.Resolve(ctx, opts.Tools)
	opts.Logger = logger

	p := newPrinter(a.out)
	opts.Progress = p.progress
	d := unarchive.New(opts)

	if cfg.DryRun {
		entries, err := d.Scan(source, dest)
		if err != nil {
			return goerr.Wrap(err, "failed to scan the source", goerr.V("source", source))
		}
		p.plan(entries, d.Strategies)
		return nil
	}

	r, err := d.Run(ctx, source, dest)
	if r != nil {
		p.summary(r)
	}
	if err != nil {
		return goerr.Wrap(err, "extraction run failed",
			goerr.V("source", source), goerr.V("dest", dest))
	}
	return r.Err()
}
