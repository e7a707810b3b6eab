package unarchive

// Package file format.go contains the archive format detection.

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Defacto2/magicnumber"
)

// Format is the archive format tag of a file.
type Format int

const (
	Unknown Format = iota // Unknown is not a supported archive.
	Zip                   // Zip is Phil Katz's ZIP.
	Rar                   // Rar is Roshal ARchive by Alexander Roshal.
	Zip7                  // Zip7 is 7-Zip by Igor Pavlov.
	Tar                   // Tar is an uncompressed Tape ARchive.
	TarGz                 // TarGz is a gzip compressed tarball.
	TarBz2                // TarBz2 is a bzip2 compressed tarball.
	TarXz                 // TarXz is a xz compressed tarball.
)

func (f Format) String() string {
	switch f {
	case Zip:
		return "zip"
	case Rar:
		return "rar"
	case Zip7:
		return "7z"
	case Tar:
		return "tar"
	case TarGz:
		return "tar.gz"
	case TarBz2:
		return "tar.bz2"
	case TarXz:
		return "tar.xz"
	case Unknown:
	}
	return "unknown"
}

// Tarball returns true for the tar format and its compressed variants.
func (f Format) Tarball() bool {
	switch f { //nolint:exhaustive
	case Tar, TarGz, TarBz2, TarXz:
		return true
	}
	return false
}

// suffixes are the filename extensions in the order they are matched.
// The multi-part extensions must come before the single ones.
var suffixes = []struct {
	ext    string
	format Format
}{
	{".tar.gz", TarGz},
	{".tar.bz2", TarBz2},
	{".tar.xz", TarXz},
	{".tgz", TarGz},
	{".tbz2", TarBz2},
	{".tbz", TarBz2},
	{".txz", TarXz},
	{".tar", Tar},
	{".zip", Zip},
	{".rar", Rar},
	{".7z", Zip7},
}

// Detect returns the archive format of the named file using its filename extension.
// The match is case-insensitive.
func Detect(name string) Format {
	base := strings.ToLower(filepath.Base(name))
	for _, s := range suffixes {
		if len(base) > len(s.ext) && strings.HasSuffix(base, s.ext) {
			return s.format
		}
	}
	return Unknown
}

// Sniff returns the archive format of the named file using its magic number signature.
//
// Compressed streams are expected to be tarballs, as a gzip, bzip2 or xz stream
// on its own is not an archive.
func Sniff(name string) (Format, error) {
	r, err := os.Open(name)
	if err != nil {
		return Unknown, fmt.Errorf("sniff open %w", err)
	}
	defer r.Close()
	sign, err := magicnumber.Archive(r)
	if err != nil {
		return Unknown, fmt.Errorf("sniff magic %w", err)
	}
	switch sign { //nolint:exhaustive
	case
		magicnumber.PKWAREZip,
		magicnumber.PKWAREZip64,
		magicnumber.PKWAREZipImplode,
		magicnumber.PKWAREZipReduce,
		magicnumber.PKWAREZipShrink:
		return Zip, nil
	case
		magicnumber.RoshalARchive,
		magicnumber.RoshalARchivev5:
		return Rar, nil
	case magicnumber.X7zCompressArchive:
		return Zip7, nil
	case magicnumber.TapeARchive:
		return Tar, nil
	case magicnumber.GzipCompressArchive:
		return TarGz, nil
	case magicnumber.Bzip2CompressArchive:
		return TarBz2, nil
	case magicnumber.XZCompressArchive:
		return TarXz, nil
	}
	return Unknown, nil
}

var volume = regexp.MustCompile(`(?i)\.part(\d+)\.rar$`)

// Continuation returns true when the named file is the second or a later
// volume of a multi-part RAR set, such as "movie.part2.rar".
// Those volumes are read through the first part and are never extracted on their own.
func Continuation(name string) bool {
	m := volume.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return n > 1
}
