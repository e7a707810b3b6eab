package unarchive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// Package file rar.go contains the RAR decompression methods.

// Rar extracts the content of the source RAR archive, credited to Alexander Roshal,
// using the [rardecode] package. Multi-volume sets are read from the first volume,
// the other volumes must be in the same directory.
//
// [rardecode]: https://github.com/nwaples/rardecode
func (x Extractor) Rar(ctx context.Context) error {
	if err := x.check(); err != nil {
		return err
	}
	r, err := rardecode.OpenReader(x.Source)
	if err != nil {
		return fmt.Errorf("rar open %w", err)
	}
	defer r.Close()
	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("rar read %w", err)
		}
		if hdr.IsDir {
			if err := makeDir(x.Destination, hdr.Name); err != nil {
				return fmt.Errorf("rar %w", err)
			}
			continue
		}
		if !hdr.Mode().IsRegular() {
			continue
		}
		if err := writeMember(ctx, x.Destination, hdr.Name, hdr.Mode(), r); err != nil {
			return fmt.Errorf("rar %w: %s", err, hdr.Name)
		}
	}
}

// Unrar extracts the content of the source RAR archive
// using the [unrar program].
//
// On Linux there are two versions of the unrar program, the freeware
// version by Alexander Roshal and the feature incomplete [unrar-free].
// The freeware version is the recommended program for extracting RAR archives.
//
// [unrar program]: https://www.rarlab.com/rar_add.htm
// [unrar-free]: https://gitlab.com/bgermann/unrar-free
func (x Extractor) Unrar(ctx context.Context, prog string) error {
	const (
		eXtract    = "x"   // x extract files with full path
		noComments = "-c-" // -c- do not display comments
		overwrite  = "-o+" // -o+ overwrite existing files
		yes        = "-y"  // -y assume yes to all queries
		warning    = 1     // exit code 1 is a non fatal warning
	)
	ok := func(code int) bool { return code == 0 || code == warning }
	// unrar treats a destination with a trailing separator as a directory
	dst := x.Destination + string(filepath.Separator)
	if err := x.Generic(ctx, prog, ok, eXtract, noComments, overwrite, yes, x.Source, dst); err != nil {
		return fmt.Errorf("unrar %w", err)
	}
	return nil
}

// Unar extracts the content of the source archive using [The Unarchiver] unar program.
// It is a last resort for rar and 7z archives.
//
// [The Unarchiver]: https://theunarchiver.com/command-line
func (x Extractor) Unar(ctx context.Context, prog string) error {
	const (
		quiet     = "-quiet"            // -q do not print the extracted files
		overwrite = "-force-overwrite"  // -f overwrite existing files
		noDir     = "-no-directory"     // -D never create a containing directory
		noRecurse = "-no-recursion"     // -nr do not extract archives within the archive
		targetDir = "-output-directory" // -o target directory
	)
	args := []string{quiet, overwrite, noDir, noRecurse, targetDir, x.Destination, x.Source}
	if err := x.Generic(ctx, prog, nil, args...); err != nil {
		return fmt.Errorf("unar %w", err)
	}
	return nil
}
