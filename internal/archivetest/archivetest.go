// Package archivetest creates small zip and tarball archives and reads back
// extracted directory trees, for use by tests.
package archivetest

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Defacto2/helper"
)

const createUnique = os.O_RDWR | os.O_CREATE | os.O_EXCL

// Files maps the slash separated member names of an archive to their content.
type Files map[string]string

// Sample are the members of the known-good test archives.
func Sample() Files {
	return Files{
		"a.txt":   "alpha\n",
		"b/c.txt": "charlie\n",
	}
}

func (f Files) names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Links maps the member names of link entries to their link targets.
type Links map[string]string

func (l Links) names() []string {
	return Files(l).names()
}

// Zip writes the files into the dest zip archive using the Deflate method.
// The total number of bytes written to the zip file is returned.
// If the dest file already exists, an error is returned.
func Zip(dest string, files Files) (int64, error) {
	return ZipLinks(dest, files, nil)
}

// ZipLinks is Zip with the symlinks appended as symbolic link members.
func ZipLinks(dest string, files Files, symlinks Links) (int64, error) {
	zipfile, err := os.OpenFile(dest, createUnique, helper.WriteWriteRead)
	if err != nil {
		return 0, fmt.Errorf("archivetest zip failed to open file: %w", err)
	}
	defer zipfile.Close()

	deflater := zip.NewWriter(zipfile)
	var written int64
	for _, name := range files.names() {
		dst, err := deflater.Create(name)
		if err != nil {
			return 0, fmt.Errorf("archivetest zip failed to create writer: %w", err)
		}
		n, err := io.Copy(dst, strings.NewReader(files[name]))
		if err != nil {
			return 0, fmt.Errorf("archivetest zip failed to copy file: %w", err)
		}
		written += n
	}
	for _, name := range symlinks.names() {
		hdr := &zip.FileHeader{Name: name, Method: zip.Store}
		hdr.SetMode(fs.ModeSymlink | 0o777)
		dst, err := deflater.CreateHeader(hdr)
		if err != nil {
			return 0, fmt.Errorf("archivetest zip failed to create link: %w", err)
		}
		if _, err := io.WriteString(dst, symlinks[name]); err != nil {
			return 0, fmt.Errorf("archivetest zip failed to write link: %w", err)
		}
	}
	if err := deflater.Close(); err != nil {
		return 0, fmt.Errorf("archivetest zip failed to close: %w", err)
	}
	return written, nil
}

// TarGz writes the files into the dest gzip compressed tarball.
// The total number of bytes written to the tarball is returned.
// If the dest file already exists, an error is returned.
func TarGz(dest string, files Files) (int64, error) {
	return TarGzLinks(dest, files, nil, nil)
}

// TarGzLinks is TarGz with the symlinks and hardlinks appended
// as symbolic and hard link members.
func TarGzLinks(dest string, files Files, symlinks, hardlinks Links) (int64, error) {
	file, err := os.OpenFile(dest, createUnique, helper.WriteWriteRead)
	if err != nil {
		return 0, fmt.Errorf("archivetest tar failed to open file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	var written int64
	for _, name := range files.names() {
		body := files[name]
		hdr := &tar.Header{
			Name:     name,
			Mode:     int64(helper.WriteWriteRead),
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return 0, fmt.Errorf("archivetest tar failed to write header: %w", err)
		}
		n, err := io.Copy(tw, strings.NewReader(body))
		if err != nil {
			return 0, fmt.Errorf("archivetest tar failed to copy file: %w", err)
		}
		written += n
	}
	links := func(l Links, flag byte) error {
		for _, name := range l.names() {
			hdr := &tar.Header{
				Name:     name,
				Linkname: l[name],
				Mode:     0o777,
				Typeflag: flag,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("archivetest tar failed to write link: %w", err)
			}
		}
		return nil
	}
	if err := links(symlinks, tar.TypeSymlink); err != nil {
		return 0, err
	}
	if err := links(hardlinks, tar.TypeLink); err != nil {
		return 0, err
	}
	if err := tw.Close(); err != nil {
		return 0, fmt.Errorf("archivetest tar failed to close: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("archivetest gzip failed to close: %w", err)
	}
	return written, nil
}

// Corrupt writes a file that starts with the ZIP signature but is not a zip archive.
func Corrupt(dest string) error {
	const junk = "PK\x03\x04this is not a zip archive"
	if err := os.WriteFile(dest, []byte(junk), helper.WriteWriteRead); err != nil {
		return fmt.Errorf("archivetest corrupt: %w", err)
	}
	return nil
}

// Tree returns the regular files within root, keyed by their slash separated
// relative path, with their content. Hidden staging directories are included
// so a test can confirm they were removed.
func Tree(root string) (Files, error) {
	files := Files{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archivetest tree: %w", err)
	}
	return files, nil
}
