package unarchive

import (
	"context"
	"fmt"

	"github.com/bodgit/sevenzip"
)

// Package file zip7.go contains the 7-Zip decompression methods.

// SevenZip extracts the content of the source 7z archive using the [sevenzip] package.
// The format is credited to Igor Pavlov.
// Archives that use an unsupported compression method or a passphrase fail
// and are left to the 7-Zip program.
//
// [sevenzip]: https://github.com/bodgit/sevenzip
func (x Extractor) SevenZip(ctx context.Context) error {
	if err := x.check(); err != nil {
		return err
	}
	r, err := sevenzip.OpenReader(x.Source)
	if err != nil {
		return fmt.Errorf("7z open %w", err)
	}
	defer r.Close()
	for _, f := range r.File {
		mode := f.FileInfo().Mode()
		if mode.IsDir() {
			if err := makeDir(x.Destination, f.Name); err != nil {
				return fmt.Errorf("7z %w", err)
			}
			continue
		}
		if !mode.IsRegular() {
			continue
		}
		if err := x.zip7File(ctx, f); err != nil {
			return fmt.Errorf("7z %w: %s", err, f.Name)
		}
	}
	return nil
}

func (x Extractor) zip7File(ctx context.Context, f *sevenzip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeMember(ctx, x.Destination, f.Name, f.FileInfo().Mode(), rc)
}

// Zip7 extracts the content of the source archive using the [7z program].
// 7-Zip reads many formats, it is used here for 7z, rar and zip archives.
//
// On some Linux distributions the 7z program is named 7zz.
// The legacy version of the 7z program, the p7zip package
// may fail with newer archives.
//
// [7z program]: https://www.7-zip.org/
func (x Extractor) Zip7(ctx context.Context, prog string) error {
	const (
		extract   = "x"    // x extract files with full paths
		overwrite = "-aoa" // -aoa overwrite all
		quiet     = "-bb0" // -bb0 quiet
		targetDir = "-o"   // -o output directory
		yes       = "-y"   // -y assume yes to all queries
	)
	args := []string{extract, overwrite, quiet, yes, targetDir + x.Destination, x.Source}
	if err := x.Generic(ctx, prog, nil, args...); err != nil {
		return fmt.Errorf("7z %w", err)
	}
	return nil
}
