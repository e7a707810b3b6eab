package unarchive

import (
	"archive/zip"
	"context"
	"fmt"
)

// Package file zip.go contains the ZIP decompression methods.

// Zip extracts the content of the source ZIP archive using the Go archive/zip package.
// The format is credited to Phil Katz.
//
// Only the Store and Deflate compression methods are supported,
// archives using the legacy Shrink, Reduce or Implode methods fail
// and are left to the 7-Zip or bsdtar programs.
// Symbolic links are not extracted.
func (x Extractor) Zip(ctx context.Context) error {
	if err := x.check(); err != nil {
		return err
	}
	r, err := zip.OpenReader(x.Source)
	if err != nil {
		return fmt.Errorf("zip open %w", err)
	}
	defer r.Close()
	for _, f := range r.File {
		mode := f.Mode()
		if mode.IsDir() {
			if err := makeDir(x.Destination, f.Name); err != nil {
				return fmt.Errorf("zip %w", err)
			}
			continue
		}
		if !mode.IsRegular() {
			continue
		}
		if err := x.zipFile(ctx, f); err != nil {
			return fmt.Errorf("zip %w: %s", err, f.Name)
		}
	}
	return nil
}

func (x Extractor) zipFile(ctx context.Context, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeMember(ctx, x.Destination, f.Name, f.Mode(), rc)
}
