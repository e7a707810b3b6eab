package unarchive

// Package file report.go contains the extraction results.

import (
	"fmt"
	"path/filepath"
	"time"
)

// Status is the extraction outcome of an archive entry.
type Status int

const (
	Pending   Status = iota // Pending has not been extracted.
	Succeeded               // Succeeded was extracted to the destination.
	Failed                  // Failed could not be extracted.
	Skipped                 // Skipped is not a supported archive or is a continuation volume.
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Entry is a file discovered in the source directory.
type Entry struct {
	Path     string        // Path is the path of the file.
	Format   Format        // Format is the inferred archive format.
	Status   Status        // Status is the extraction outcome.
	Strategy string        // Strategy is the extractor that succeeded.
	Files    int           // Files is the number of files written to the destination.
	Readme   string        // Readme is the best text readme among the written files.
	Err      error         // Err is the reason for a failed or skipped entry.
	Elapsed  time.Duration // Elapsed is the time taken to extract.
}

// Name returns the filename of the entry.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Report is the result of an extraction run.
type Report struct {
	Source      string  // Source is the scanned directory.
	Destination string  // Destination is the output directory.
	Entries     []Entry // Entries are the discovered files, ordered by path.
}

// Count returns the number of entries with the status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Succeeded returns the number of extracted archives.
func (r *Report) Succeeded() int { return r.Count(Succeeded) }

// Failed returns the number of archives that could not be extracted.
func (r *Report) Failed() int { return r.Count(Failed) }

// Skipped returns the number of files that were not extracted.
func (r *Report) Skipped() int { return r.Count(Skipped) }

// Written returns the total number of files written to the destination.
func (r *Report) Written() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Files
	}
	return n
}

// Err returns ErrIncomplete if any archive failed to extract.
func (r *Report) Err() error {
	if n := r.Failed(); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrIncomplete, n, n+r.Succeeded())
	}
	return nil
}
