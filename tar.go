package unarchive

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// Package file tar.go contains the Tape ARchive decompression methods.

// Tar extracts the content of the source tarball using the Go archive/tar package.
// The format decides the decompressor that wraps the tarball,
// gzip and bzip2 use the standard library and xz uses [xz].
// Only directories and regular files are extracted, links and devices are ignored.
//
// [xz]: https://github.com/ulikunitz/xz
func (x Extractor) Tar(ctx context.Context, format Format) error {
	if err := x.check(); err != nil {
		return err
	}
	file, err := os.Open(x.Source)
	if err != nil {
		return fmt.Errorf("tar open %w", err)
	}
	defer file.Close()
	r, err := decompressor(bufio.NewReader(file), format)
	if err != nil {
		return fmt.Errorf("tar %s %w", format, err)
	}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar read %w", err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := makeDir(x.Destination, hdr.Name); err != nil {
				return fmt.Errorf("tar %w", err)
			}
		case tar.TypeReg:
			if err := writeMember(ctx, x.Destination, hdr.Name, hdr.FileInfo().Mode(), tr); err != nil {
				return fmt.Errorf("tar %w: %s", err, hdr.Name)
			}
		}
	}
}

func decompressor(r io.Reader, format Format) (io.Reader, error) {
	switch format { //nolint:exhaustive
	case Tar:
		return r, nil
	case TarGz:
		return gzip.NewReader(r)
	case TarBz2:
		return bzip2.NewReader(r), nil
	case TarXz:
		return xz.NewReader(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
}

// BSDTar extracts the content of the source archive using the [bsdtar program].
//
// bsdtar uses the performant [libarchive library] for archive extraction:
//
// gzip, bzip2, compress, xz, lzip, lzma, tar, iso9660, zip, ar, xar,
// lha/lzh, rar, rar v5, Microsoft Cabinet, 7-zip.
//
// [bsdtar program]: https://man.freebsd.org/cgi/man.cgi?query=bsdtar&sektion=1&format=html
// [libarchive library]: http://www.libarchive.org/
func (x Extractor) BSDTar(ctx context.Context, prog string) error {
	// note: BSD tar uses different flags to GNU tar
	const (
		extract   = "-x"                    // -x extract files
		source    = "--file"                // -f file path to extract
		targetDir = "--cd"                  // -C target directory
		noAcls    = "--no-acls"             // --no-acls
		noFlags   = "--no-fflags"           // --no-fflags
		noSafeW   = "--no-safe-writes"      // --no-safe-writes
		noOwner   = "--no-same-owner"       // --no-same-owner
		noPerms   = "--no-same-permissions" // --no-same-permissions
		noXattrs  = "--no-xattrs"           // --no-xattrs
	)
	args := []string{extract, source, x.Source}
	args = append(args, noAcls, noFlags, noSafeW, noOwner, noPerms, noXattrs)
	args = append(args, targetDir, x.Destination)
	if err := x.Generic(ctx, prog, nil, args...); err != nil {
		return fmt.Errorf("bsdtar %w", err)
	}
	return nil
}
