package config

import (
	"errors"
	"os"
	"time"

	"github.com/Defacto2/unarchive"
	"github.com/Defacto2/unarchive/command"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Flag names that can also be given by the configuration file.
const (
	FlagDest           = "dest"
	FlagRecursive      = "recursive"
	FlagSniff          = "sniff"
	FlagConflict       = "conflict"
	FlagPreferExternal = "prefer-external"
	FlagNoNative       = "no-native"
	FlagTimeout        = "timeout"
	FlagZip7           = "7z"
	FlagBSDTar         = "bsdtar"
	FlagUnrar          = "unrar"
	FlagUnar           = "unar"
)

// Config holds the extraction configuration
type Config struct {
	Path           string
	Dest           string
	Recursive      bool
	Sniff          bool
	Conflict       string
	PreferExternal bool
	NoNative       bool
	Timeout        time.Duration
	DryRun         bool
	Tools          command.Tools
}

// Flags returns CLI flags for the extraction configuration
func (c *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("UNARCHIVE_CONFIG"),
		},
		&cli.StringFlag{
			Name:        FlagDest,
			Aliases:     []string{"d"},
			Usage:       "Destination directory (default: <source>/" + unarchive.DirName + ")",
			Destination: &c.Dest,
			Sources:     cli.EnvVars("UNARCHIVE_DEST"),
		},
		&cli.BoolFlag{
			Name:        FlagRecursive,
			Aliases:     []string{"r"},
			Usage:       "Scan the subdirectories of the source",
			Destination: &c.Recursive,
		},
		&cli.BoolFlag{
			Name:        FlagSniff,
			Usage:       "Identify files with unknown extensions by their signature",
			Destination: &c.Sniff,
		},
		&cli.StringFlag{
			Name:        FlagConflict,
			Usage:       "Policy for existing files (overwrite, skip, rename)",
			Value:       string(unarchive.Overwrite),
			Destination: &c.Conflict,
			Sources:     cli.EnvVars("UNARCHIVE_CONFLICT"),
		},
		&cli.BoolFlag{
			Name:        FlagPreferExternal,
			Usage:       "Try the installed programs before the built-in decoders",
			Destination: &c.PreferExternal,
		},
		&cli.BoolFlag{
			Name:        FlagNoNative,
			Usage:       "Only use the installed programs",
			Destination: &c.NoNative,
		},
		&cli.DurationFlag{
			Name:        FlagTimeout,
			Usage:       "Time limit of an installed program extraction",
			Value:       unarchive.TimeoutExtract,
			Destination: &c.Timeout,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "List the archives and their extractors without extracting",
			Destination: &c.DryRun,
		},
		&cli.StringFlag{
			Name:        FlagZip7,
			Usage:       "Path to the 7-Zip program",
			Destination: &c.Tools.Zip7,
			Sources:     cli.EnvVars(command.EnvZip7),
		},
		&cli.StringFlag{
			Name:        FlagBSDTar,
			Usage:       "Path to the bsdtar program",
			Destination: &c.Tools.BSDTar,
			Sources:     cli.EnvVars(command.EnvBSDTar),
		},
		&cli.StringFlag{
			Name:        FlagUnrar,
			Usage:       "Path to the unrar program",
			Destination: &c.Tools.Unrar,
			Sources:     cli.EnvVars(command.EnvUnrar),
		},
		&cli.StringFlag{
			Name:        FlagUnar,
			Usage:       "Path to the unar program",
			Destination: &c.Tools.Unar,
			Sources:     cli.EnvVars(command.EnvUnar),
		},
	}
}

// File is the content of a TOML configuration file.
//
//	dest = "/srv/unarchived"
//	recursive = true
//	conflict = "rename"
//	timeout = "2m"
//
//	[tools]
//	7z = "/opt/7zip/7zz"
type File struct {
	Dest           string `toml:"dest"`
	Recursive      bool   `toml:"recursive"`
	Sniff          bool   `toml:"sniff"`
	Conflict       string `toml:"conflict"`
	PreferExternal bool   `toml:"prefer_external"`
	NoNative       bool   `toml:"no_native"`
	Timeout        string `toml:"timeout"`
	Tools          Tools  `toml:"tools"`

	timeout time.Duration
}

// Tools are the program paths of a configuration file.
type Tools struct {
	Zip7   string `toml:"7z"`
	BSDTar string `toml:"bsdtar"`
	Unrar  string `toml:"unrar"`
	Unar   string `toml:"unar"`
}

// Load reads the TOML configuration file at path.
// Unknown keys are an error.
func Load(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open config file", goerr.V("path", path))
	}
	defer r.Close()

	var f File
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, goerr.Wrap(err, "unknown keys in config file",
				goerr.V("path", path), goerr.V("detail", strict.String()))
		}
		return nil, goerr.Wrap(err, "failed to decode config file", goerr.V("path", path))
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil || d <= 0 {
			return nil, goerr.New("invalid timeout in config file",
				goerr.V("path", path), goerr.V("timeout", f.Timeout))
		}
		f.timeout = d
	}
	return &f, nil
}

// Merge copies the file settings into the configuration.
// A setting given as a flag or environment variable is kept,
// isSet reports whether the named flag was set.
func (c *Config) Merge(f *File, isSet func(name string) bool) {
	if f == nil {
		return
	}
	str := func(name string, dst *string, v string) {
		if v != "" && !isSet(name) {
			*dst = v
		}
	}
	flag := func(name string, dst *bool, v bool) {
		if v && !isSet(name) {
			*dst = v
		}
	}
	str(FlagDest, &c.Dest, f.Dest)
	str(FlagConflict, &c.Conflict, f.Conflict)
	str(FlagZip7, &c.Tools.Zip7, f.Tools.Zip7)
	str(FlagBSDTar, &c.Tools.BSDTar, f.Tools.BSDTar)
	str(FlagUnrar, &c.Tools.Unrar, f.Tools.Unrar)
	str(FlagUnar, &c.Tools.Unar, f.Tools.Unar)
	flag(FlagRecursive, &c.Recursive, f.Recursive)
	flag(FlagSniff, &c.Sniff, f.Sniff)
	flag(FlagPreferExternal, &c.PreferExternal, f.PreferExternal)
	flag(FlagNoNative, &c.NoNative, f.NoNative)
	if f.timeout > 0 && !isSet(FlagTimeout) {
		c.Timeout = f.timeout
	}
}

// Options returns the dispatcher configuration.
// The tools are the unresolved overrides, see command.Resolve.
func (c *Config) Options() (unarchive.Config, error) {
	conflict, err := unarchive.ParseConflict(c.Conflict)
	if err != nil {
		return unarchive.Config{}, goerr.Wrap(err, "invalid conflict policy", goerr.V("conflict", c.Conflict))
	}
	if c.Timeout < 0 {
		return unarchive.Config{}, goerr.New("timeout must not be negative", goerr.V("timeout", c.Timeout))
	}
	if c.NoNative && c.PreferExternal {
		return unarchive.Config{}, goerr.New("prefer-external and no-native cannot be combined")
	}
	return unarchive.Config{
		Recursive:      c.Recursive,
		Sniff:          c.Sniff,
		Conflict:       conflict,
		PreferExternal: c.PreferExternal,
		NoNative:       c.NoNative,
		Timeout:        c.Timeout,
		Tools:          c.Tools,
	}, nil
}
