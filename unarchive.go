// Package unarchive finds the archives in a directory and extracts them all
// into a single destination directory.
//
// The archive formats supported are 7-Zip, RAR, TAR (plain, gzip, bzip2 and xz)
// and ZIP. Each format has an ordered list of extraction strategies, the Go
// decoders are tried first, followed by these external programs when installed.
//
//  1. [7zz] - 7-Zip for Linux, macOS and Windows, or the legacy 7z, 7za, 7zr
//  2. [bsdtar] - libarchive tar, which is the tar on macOS and Windows
//  3. [unrar] - freeware by Alexander Roshal, not the common [unrar-free] which is feature incomplete
//  4. [unar] - The Unarchiver command line tool
//
// Every strategy extracts into a staging directory within the destination,
// which is only merged into the destination after a successful extraction.
// A failed archive never leaves partial content behind.
//
// [7zz]: https://www.7-zip.org/
// [bsdtar]: https://www.libarchive.org/
// [unrar]: https://www.rarlab.com/rar_add.htm
// [unrar-free]: https://gitlab.com/bgermann/unrar-free
// [unar]: https://theunarchiver.com/command-line
package unarchive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Defacto2/unarchive/command"
)

// DirName is the default name of the destination directory within the source.
const DirName = "unarchived"

var (
	ErrSource      = errors.New("source directory is not readable")
	ErrDest        = errors.New("destination directory is not usable")
	ErrUnsupported = errors.New("file is not a supported archive format")
	ErrVolume      = errors.New("file is a continuation volume of a multi-part archive")
	ErrCorrupt     = errors.New("archive is corrupt or uses an unsupported method")
	ErrMissingTool = errors.New("no extractor is available")
	ErrProg        = errors.New("program error")
	ErrConflict    = errors.New("conflict policy must be overwrite, skip or rename")
	ErrIncomplete  = errors.New("archives failed to extract")
)

// Config are the settings of a Dispatcher.
type Config struct {
	Recursive      bool          // Recursive scans the subdirectories of the source.
	Sniff          bool          // Sniff classifies unknown filename extensions by their magic number.
	Conflict       Conflict      // Conflict is the policy for existing files, empty is Overwrite.
	PreferExternal bool          // PreferExternal tries the external programs before the Go decoders.
	NoNative       bool          // NoNative only uses the external programs.
	Timeout        time.Duration // Timeout of an external program, zero uses TimeoutExtract.
	Tools          command.Tools // Tools are the resolved external programs.
	Logger         *slog.Logger  // Logger receives the run progress, nil uses the slog default.

	// Progress is called after each entry is handled
	// with its 1-based position in the queue.
	Progress func(n, total int, e Entry)
}

// Dispatcher routes the archives of a source directory to their extractors.
type Dispatcher struct {
	cfg Config
	log *slog.Logger
}

// New returns a Dispatcher using the configuration.
func New(cfg Config) *Dispatcher {
	if cfg.Conflict == "" {
		cfg.Conflict = Overwrite
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{cfg: cfg, log: log}
}

// ExtractAll extracts all the archives found in the src directory to the dst directory
// using the Go decoders and the default settings.
func ExtractAll(ctx context.Context, src, dst string) (*Report, error) {
	return New(Config{}).Run(ctx, src, dst)
}

// Run extracts every archive found in the source directory into the dest directory,
// which is created when missing. Archives are handled one at a time and a failed
// archive does not stop the run, its error is kept in the report.
//
// An error is returned only when the source cannot be read, the dest cannot be
// created or the context is cancelled. In the last case the report lists the
// remaining archives as pending.
func (d *Dispatcher) Run(ctx context.Context, source, dest string) (*Report, error) {
	entries, err := d.Scan(source, dest)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDest, err)
	}
	r := &Report{
		Source:      source,
		Destination: dest,
		Entries:     entries,
	}
	d.log.Debug("extraction tools", slog.Any("tools", d.cfg.Tools))
	if len(entries) == 0 {
		d.log.Info("no archives found", slog.String("source", source))
		return r, nil
	}
	d.log.Info("extracting archives",
		slog.Int("files", len(entries)),
		slog.String("dest", dest))
	total := len(r.Entries)
	for i := range r.Entries {
		if err := ctx.Err(); err != nil {
			return r, fmt.Errorf("run interrupted %w", err)
		}
		e := &r.Entries[i]
		switch e.Status { //nolint:exhaustive
		case Skipped:
			d.log.Warn("skipped", slog.String("file", e.Name()), slog.Any("reason", e.Err))
		default:
			d.extract(ctx, e, dest)
		}
		if d.cfg.Progress != nil {
			d.cfg.Progress(i+1, total, *e)
		}
	}
	if err := ctx.Err(); err != nil {
		return r, fmt.Errorf("run interrupted %w", err)
	}
	d.log.Info("extraction done",
		slog.Int("succeeded", r.Succeeded()),
		slog.Int("failed", r.Failed()),
		slog.Int("skipped", r.Skipped()),
		slog.Int("written", r.Written()))
	return r, nil
}

// Scan lists and classifies the files of the source directory without extracting them.
// Supported archives are pending, everything else is skipped.
// The dest directory and its content are never listed.
func (d *Dispatcher) Scan(source, dest string) ([]Entry, error) {
	st, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSource, source)
	}
	paths, err := d.files(source, dest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, d.classify(path))
	}
	return entries, nil
}

// files returns the sorted paths of the regular files in the source.
func (d *Dispatcher) files(source, dest string) ([]string, error) {
	skip, _ := filepath.Abs(dest)
	var paths []string
	if !d.cfg.Recursive {
		items, err := os.ReadDir(source)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			path := filepath.Join(source, item.Name())
			if regular(path, item) {
				paths = append(paths, path)
			}
		}
		return paths, nil
	}
	err := filepath.WalkDir(source, func(path string, item fs.DirEntry, err error) error {
		if err != nil {
			if path == source {
				return err
			}
			d.log.Warn("unreadable path", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if item.IsDir() {
			if abs, _ := filepath.Abs(path); abs == skip {
				return filepath.SkipDir
			}
			return nil
		}
		if regular(path, item) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

// regular returns true for regular files and symbolic links to regular files.
func regular(path string, item fs.DirEntry) bool {
	if item.Type().IsRegular() {
		return true
	}
	if item.Type()&fs.ModeSymlink == 0 {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

func (d *Dispatcher) classify(path string) Entry {
	e := Entry{Path: path, Format: Detect(path)}
	if e.Format == Unknown && d.cfg.Sniff {
		f, err := Sniff(path)
		if err != nil {
			d.log.Debug("sniff failed", slog.String("file", path), slog.Any("error", err))
		}
		e.Format = f
	}
	switch {
	case e.Format == Unknown:
		e.Status = Skipped
		e.Err = fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	case e.Format == Rar && Continuation(path):
		e.Status = Skipped
		e.Err = ErrVolume
	}
	return e
}

// extract tries the strategies of the entry format in order
// until one succeeds and records the outcome in the entry.
func (d *Dispatcher) extract(ctx context.Context, e *Entry, dest string) {
	start := time.Now()
	defer func() { e.Elapsed = time.Since(start) }()
	log := d.log.With(slog.String("file", e.Name()), slog.String("format", e.Format.String()))

	plan := d.strategies(e.Format)
	var errs []error
	fallback := false
	for _, s := range plan {
		if !s.usable {
			continue
		}
		fallback = fallback || s.external
		placed, err := d.attempt(ctx, s, e.Path, dest)
		if err == nil {
			e.Status, e.Strategy, e.Files, e.Err = Succeeded, s.name, len(placed), nil
			e.Readme = Readme(e.Path, placed...)
			log.Info("extracted", slog.String("with", s.name), slog.Int("files", e.Files))
			return
		}
		if ctx.Err() != nil {
			e.Status, e.Err = Failed, fmt.Errorf("%s: %w", s.name, ctx.Err())
			return
		}
		if errors.Is(err, ErrDest) {
			// another strategy cannot write to the destination either
			e.Status, e.Err = Failed, fmt.Errorf("%s: %w", s.name, err)
			log.Error("extraction failed", slog.Any("error", e.Err))
			return
		}
		log.Debug("strategy failed", slog.String("with", s.name), slog.Any("error", err))
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	e.Status = Failed
	missing := fmt.Errorf("%w for %s archives, %s", ErrMissingTool, e.Format, missingHint(e.Format))
	switch {
	case len(errs) == 0:
		e.Err = missing
	case !fallback && (e.Format == Rar || e.Format == Zip7):
		e.Err = errors.Join(fmt.Errorf("%w: %w", ErrCorrupt, errors.Join(errs...)), missing)
	default:
		e.Err = fmt.Errorf("%w: %w", ErrCorrupt, errors.Join(errs...))
	}
	log.Error("extraction failed", slog.Any("error", e.Err))
}

// attempt runs the strategy into a new staging directory and then merges
// the staged files into dest. The staging directory is always removed.
func (d *Dispatcher) attempt(ctx context.Context, s strategy, src, dest string) ([]string, error) {
	stage, err := os.MkdirTemp(dest, stagePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDest, err)
	}
	defer os.RemoveAll(stage)
	x := Extractor{
		Source:      src,
		Destination: stage,
		Timeout:     d.cfg.Timeout,
	}
	if err := s.extract(ctx, x); err != nil {
		return nil, err
	}
	placed, err := merge(stage, dest, d.cfg.Conflict)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDest, err)
	}
	return placed, nil
}

func missingHint(f Format) string {
	var progs []string
	switch f { //nolint:exhaustive
	case Rar:
		progs = []string{command.Unrar, command.Zip7, command.BSDTar, command.Unar}
	case Zip7:
		progs = []string{command.Zip7, command.BSDTar, command.Unar}
	default:
		progs = []string{command.Zip7, command.BSDTar}
	}
	return fmt.Sprintf("install one of %s or set %s to the path of a 7-Zip program",
		strings.Join(progs, ", "), command.EnvZip7)
}
