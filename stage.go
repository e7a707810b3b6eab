package unarchive

// Package file stage.go contains the staging directory and its merge into the destination.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Defacto2/helper"
)

// Conflict is the policy for a file that already exists in the destination.
type Conflict string

const (
	Overwrite Conflict = "overwrite" // Overwrite replaces the existing file.
	Skip      Conflict = "skip"      // Skip keeps the existing file.
	Rename    Conflict = "rename"    // Rename writes the new file as name_1.ext, name_2.ext...
)

// ParseConflict returns the named conflict policy, an empty name is Overwrite.
func ParseConflict(name string) (Conflict, error) {
	switch c := Conflict(strings.ToLower(strings.TrimSpace(name))); c {
	case "":
		return Overwrite, nil
	case Overwrite, Skip, Rename:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrConflict, name)
}

const (
	stagePattern = ".unarchive-*" // stagePattern is the name of a staging directory in the destination.
	copyBuffer   = 64 * 1024
)

// sanitize returns the archive member name as a relative path that cannot
// escape the extraction directory. Empty, dot and dot-dot elements and any
// volume or root prefix are dropped. Both slash and backslash are separators.
// An empty string is returned when nothing usable remains.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	parts := strings.Split(name, "/")
	keep := make([]string, 0, len(parts))
	for i, p := range parts {
		switch {
		case p == "", p == ".", p == "..":
			continue
		case i == 0 && strings.HasSuffix(p, ":"):
			// drive letter
			continue
		}
		keep = append(keep, p)
	}
	if len(keep) == 0 {
		return ""
	}
	return filepath.Join(keep...)
}

// makeDir creates the named member directory within root.
func makeDir(root, name string) error {
	rel := sanitize(name)
	if rel == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(root, rel), 0o755); err != nil {
		return fmt.Errorf("make dir %w", err)
	}
	return nil
}

// writeMember copies r into the named member file within root.
func writeMember(ctx context.Context, root, name string, mode fs.FileMode, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := sanitize(name)
	if rel == "" {
		return nil
	}
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write member %w", err)
	}
	perm := mode.Perm() | 0o600
	if mode.Perm() == 0 {
		perm = WriteWriteRead
	}
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("write member %w", err)
	}
	buf := make([]byte, copyBuffer)
	if _, err := io.CopyBuffer(dst, r, buf); err != nil {
		dst.Close()
		return fmt.Errorf("write member %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("write member %w", err)
	}
	return nil
}

// placement is a staged file or directory and its target in the destination.
type placement struct {
	src, dst string
	dir      bool
	existed  bool // existed is true when an existing file is overwritten
}

// merge moves the files of the stage directory into dest using the conflict policy.
// The slash separated paths, relative to dest, of the files placed in the
// destination are returned.
//
// Every target is resolved before anything is moved. A staged directory that
// meets an existing file is renamed like a file, and its content follows it.
// When a move fails the new files and directories already placed are removed.
// Anything that is not a regular file or directory, such as a symbolic link
// created by an external program, is discarded.
func merge(stage, dest string, policy Conflict) ([]string, error) {
	plan, err := mergePlan(stage, dest, policy)
	if err != nil {
		return nil, fmt.Errorf("merge %w", err)
	}
	var done []placement
	placed := []string{}
	for _, p := range plan {
		if p.dir {
			if _, err := os.Lstat(p.dst); err == nil {
				continue
			}
			if err := os.Mkdir(p.dst, 0o755); err != nil {
				rollback(done)
				return nil, fmt.Errorf("merge %w", err)
			}
			done = append(done, p)
			continue
		}
		if err := move(p.src, p.dst); err != nil {
			rollback(done)
			return nil, fmt.Errorf("merge %w", err)
		}
		done = append(done, p)
		rel, err := filepath.Rel(dest, p.dst)
		if err != nil {
			rel = p.dst
		}
		placed = append(placed, filepath.ToSlash(rel))
	}
	return placed, nil
}

// mergePlan walks the stage and returns the placements in walk order,
// so a directory always comes before its content.
func mergePlan(stage, dest string, policy Conflict) ([]placement, error) {
	dirs := map[string]string{stage: dest}
	var plan []placement
	err := filepath.WalkDir(stage, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == stage {
			return nil
		}
		parent, ok := dirs[filepath.Dir(path)]
		if !ok {
			return nil
		}
		target := filepath.Join(parent, d.Name())
		switch {
		case d.IsDir():
			if st, err := os.Lstat(target); err == nil && !st.IsDir() {
				// a file cannot be replaced by a directory
				target = unique(target)
			}
			dirs[path] = target
			plan = append(plan, placement{src: path, dst: target, dir: true})
		case d.Type().IsRegular():
			target, ok := resolve(target, policy)
			if !ok {
				return nil
			}
			_, err := os.Lstat(target)
			plan = append(plan, placement{src: path, dst: target, existed: err == nil})
		}
		return nil
	})
	return plan, err
}

// rollback removes the placed files and the created directories, newest first.
// Overwritten files cannot be restored and are left in place.
func rollback(done []placement) {
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].existed {
			continue
		}
		os.Remove(done[i].dst)
	}
}

// resolve applies the conflict policy to the target path.
// It returns false when the file should not be written.
func resolve(target string, policy Conflict) (string, bool) {
	st, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return target, true
	}
	switch {
	case policy == Skip:
		return "", false
	case policy == Rename, err != nil, st.IsDir():
		// a directory cannot be overwritten by a file
		return unique(target), true
	}
	return target, true
}

// unique returns the first name_N.ext variant of path that does not exist.
func unique(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		name := stem + "_" + strconv.Itoa(i) + ext
		if _, err := os.Lstat(name); errors.Is(err, fs.ErrNotExist) {
			return name
		}
	}
}

// move renames src to dst, falling back to a copy when the rename
// is across devices or the destination needs replacing.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if _, err := helper.DuplicateOW(src, dst); err != nil {
		return fmt.Errorf("move %w", err)
	}
	return nil
}
