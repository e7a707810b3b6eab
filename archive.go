package unarchive

// Package file archive.go contains the Extractor and the running of external programs.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

const (
	// TimeoutExtract is the default maximum time allowed for an external program extraction.
	TimeoutExtract = 10 * time.Minute

	// WriteWriteRead is the file mode for read and write access.
	// The file owner and group has read and write access, and others have read access.
	WriteWriteRead fs.FileMode = 0o664
)

// Extractor decompresses the Source archive into the Destination directory,
// either with a Go decoder or an external program.
//
//	func Extract() {
//	    x := unarchive.Extractor{
//	        Source:      "archive.zip",
//	        Destination: os.TempDir(),
//	    }
//	    if err := x.Zip(context.Background()); err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	        return
//	    }
//	}
type Extractor struct {
	Source      string        // The source archive file.
	Destination string        // The extraction destination directory, which must exist.
	Timeout     time.Duration // Timeout of an external program, zero uses TimeoutExtract.
}

func (x Extractor) timeout() time.Duration {
	if x.Timeout <= 0 {
		return TimeoutExtract
	}
	return x.Timeout
}

func (x Extractor) check() error {
	if x.Destination == "" {
		return ErrDest
	}
	return nil
}

// exitOK reports whether an external program exit code is a success.
type exitOK func(code int) bool

// zeroExit accepts only the zero exit code.
func zeroExit(code int) bool { return code == 0 }

// Generic runs the external prog with the args and waits for it to finish.
// Stderr is captured and returned as part of the error.
// A nil ok accepts only the zero exit code.
func (x Extractor) Generic(ctx context.Context, prog string, ok exitOK, args ...string) error {
	if prog == "" {
		return ErrMissingTool
	}
	if err := x.check(); err != nil {
		return err
	}
	if ok == nil {
		ok = zeroExit
	}
	var b bytes.Buffer
	ctx, cancel := context.WithTimeout(ctx, x.timeout())
	defer cancel()
	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Stderr = &b
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) && ok(exit.ExitCode()) && ctx.Err() == nil {
		return nil
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return fmt.Errorf("%w: %s: %s: %q", ErrProg, prog, err, s)
	}
	return fmt.Errorf("%w: %s: %w", ErrProg, prog, err)
}
