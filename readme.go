package unarchive

// Package file readme.go contains the search for the text readme of an extracted archive.

import (
	"cmp"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const (
	diz = ".diz"
	nfo = ".nfo"
	txt = ".txt"
)

// Rank of a readme filename match, the lower the value the better the match.
type Rank uint

const (
	Rank1 Rank = iota + 1 // Rank1 is the best match.
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7 // Rank7 is the weakest match.
)

// Readme returns the best matching text readme, NFO or file description from the
// slash separated files extracted from the named archive. An empty string is
// returned when there are no text files.
//
// The matches are case-insensitive as many archives were created on
// Windows and MS-DOS file systems. A shallow file beats a deeper one of the same rank.
func Readme(archive string, files ...string) string {
	type match struct {
		name  string
		rank  Rank
		depth int
	}
	base := strings.ToLower(filepath.Base(archive))
	for _, s := range suffixes {
		if strings.HasSuffix(base, s.ext) {
			base = strings.TrimSuffix(base, s.ext)
			break
		}
	}
	matches := []match{}
	for _, file := range files {
		r := rank(strings.ToLower(path.Base(file)), base)
		if r == 0 {
			continue
		}
		matches = append(matches, match{name: file, rank: r, depth: strings.Count(file, "/")})
	}
	if len(matches) == 0 {
		return ""
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		if c := cmp.Compare(a.depth, b.depth); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return matches[0].name
}

// rank returns zero when the lowercase name is not a readme.
func rank(name, base string) Rank {
	ext := path.Ext(name)
	switch {
	case name == base+nfo:
		return Rank1
	case name == base+txt:
		return Rank2
	case ext == nfo:
		return Rank3
	case name == "file_id.diz":
		// BBS file description
		return Rank4
	case name == base+diz:
		return Rank5
	case ext == txt:
		return Rank6
	case ext == diz:
		return Rank7
	}
	return 0
}
