// Package command lists the known archiving and decompression application names
// and resolves where they are installed.
package command

// A note about unrar: On Linux there are incompatible variants of unrar.
// The common unrar-free application is incomplete and fails on many .rar files,
// the freeware version by Alexander Roshal or 7-Zip should be preferred.

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"
)

const (
	BSDTar = "bsdtar" // BSDTar is the libarchive tar command that also reads 7z, rar and zip.
	Tar    = "tar"    // Tar is the tar command, only usable when it is a bsdtar build.
	Unar   = "unar"   // Unar is The Unarchiver command line extractor.
	Unrar  = "unrar"  // Unrar is the rar decompression command.
	Zip7   = "7zz"    // Zip7 is the 7-Zip decompression command.
)

// Environment variables that the command line tool reads for the program path overrides.
const (
	EnvZip7   = "UNARCHIVE_7Z_PATH"
	EnvBSDTar = "UNARCHIVE_BSDTAR_PATH"
	EnvUnrar  = "UNARCHIVE_UNRAR_PATH"
	EnvUnar   = "UNARCHIVE_UNAR_PATH"
)

// TimeoutLookup is the maximum time allowed for a program version query.
const TimeoutLookup = 2 * time.Second

// Zip7Names are the 7-Zip program names in order of preference.
// On some Linux distributions the 7z program is named 7zz,
// while the legacy p7zip package provides 7z, 7za and 7zr.
func Zip7Names() []string {
	return []string{Zip7, "7z", "7za", "7zr"}
}

// Zip7Paths are the well-known install locations of 7-Zip that are
// usually missing from the PATH.
func Zip7Paths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\7-Zip\7z.exe`,
			`C:\Program Files (x86)\7-Zip\7z.exe`,
		}
	case "darwin":
		return []string{"/opt/homebrew/bin/7zz", "/opt/homebrew/bin/7z", "/usr/local/bin/7z"}
	default:
		return []string{"/usr/bin/7zz", "/usr/bin/7z", "/usr/local/bin/7z"}
	}
}

// Tools are the absolute paths of the external extraction programs.
// An empty path means the program is not available.
type Tools struct {
	Zip7   string // Zip7 is the 7-Zip program.
	BSDTar string // BSDTar is the libarchive bsdtar program.
	Unrar  string // Unrar is the RARLAB unrar program.
	Unar   string // Unar is The Unarchiver program.
}

// LogValue reports the availability of each program.
func (t Tools) LogValue() slog.Value {
	avail := func(s string) string {
		if s == "" {
			return "no"
		}
		return s
	}
	return slog.GroupValue(
		slog.String("7z", avail(t.Zip7)),
		slog.String("bsdtar", avail(t.BSDTar)),
		slog.String("unrar", avail(t.Unrar)),
		slog.String("unar", avail(t.Unar)),
	)
}

// Resolve finds the installed programs. A non-empty override path is used
// when it names an existing file, otherwise the program names are looked up
// in the PATH, followed by the well-known install locations.
func Resolve(ctx context.Context, override Tools) Tools {
	return Tools{
		Zip7:   Lookup(override.Zip7, Zip7Names(), Zip7Paths()...),
		BSDTar: lookupBSDTar(ctx, override.BSDTar),
		Unrar:  Lookup(override.Unrar, []string{Unrar}),
		Unar:   Lookup(override.Unar, []string{Unar}),
	}
}

// Lookup returns the path of the first usable program, or an empty string.
// The override is tried first, then each of the names in the PATH
// and finally each of the known absolute paths.
func Lookup(override string, names []string, known ...string) string {
	if isFile(override) {
		return override
	}
	for _, name := range names {
		if prog, err := exec.LookPath(name); err == nil {
			return prog
		}
	}
	for _, path := range known {
		if isFile(path) {
			return path
		}
	}
	return ""
}

func lookupBSDTar(ctx context.Context, override string) string {
	if isFile(override) {
		return override
	}
	if prog, err := exec.LookPath(BSDTar); err == nil {
		return prog
	}
	// macOS and Windows ship libarchive as their tar
	if prog, err := exec.LookPath(Tar); err == nil && IsBSDTar(ctx, prog) {
		return prog
	}
	return ""
}

// IsBSDTar returns true if the named tar program reports that it is
// a build of bsdtar or libarchive, which unlike GNU tar reads 7z, rar and zip.
func IsBSDTar(ctx context.Context, prog string) bool {
	ctx, cancel := context.WithTimeout(ctx, TimeoutLookup)
	defer cancel()
	out, err := exec.CommandContext(ctx, prog, "--version").CombinedOutput()
	if err != nil {
		return false
	}
	out = bytes.ToLower(out)
	return bytes.Contains(out, []byte("bsdtar")) || bytes.Contains(out, []byte("libarchive"))
}

func isFile(name string) bool {
	if name == "" {
		return false
	}
	st, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !st.IsDir()
}
