package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Defacto2/unarchive"
	"github.com/Defacto2/unarchive/internal/archivetest"
	"github.com/Defacto2/unarchive/internal/cli"
	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	err    error
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := cli.New(strings.NewReader(""), &stdout, &stderr)
	err := app.Run(context.Background(), append([]string{"unarchive", "--log-level", "error"}, args...))
	return result{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func source(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	_, err := archivetest.Zip(filepath.Join(src, "good.zip"), archivetest.Sample())
	gt.NoError(t, err)
	_, err = archivetest.TarGz(filepath.Join(src, "other.tar.gz"), archivetest.Files{"other.nfo": "nfo"})
	gt.NoError(t, err)
	gt.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("notes"), unarchive.WriteWriteRead))
	return src
}

func TestExitCode(t *testing.T) {
	gt.Equal(t, cli.ExitCode(nil), cli.ExitOK)
	gt.Equal(t, cli.ExitCode(unarchive.ErrIncomplete), cli.ExitIncomplete)
	gt.Equal(t, cli.ExitCode(context.Canceled), cli.ExitInterrupt)
	gt.Equal(t, cli.ExitCode(unarchive.ErrSource), cli.ExitFatal)
	gt.Equal(t, cli.ExitCode(errors.New("flag provided but not defined")), cli.ExitFatal)
}

func TestRun(t *testing.T) {
	src := source(t)
	r := run(t, src)
	gt.NoError(t, r.err)
	gt.String(t, r.stdout).Contains("✓ good.zip")
	gt.String(t, r.stdout).Contains("readme: other.nfo")
	gt.String(t, r.stdout).Contains("- notes.txt")
	gt.String(t, r.stdout).Contains("2 succeeded, 0 failed, 1 skipped, 3 files written")

	files, err := archivetest.Tree(filepath.Join(src, unarchive.DirName))
	gt.NoError(t, err)
	gt.Equal(t, len(files), 3)
	gt.Equal(t, files["b/c.txt"], "charlie\n")
}

func TestRun_Failure(t *testing.T) {
	src := source(t)
	gt.NoError(t, archivetest.Corrupt(filepath.Join(src, "bad.zip")))
	dest := filepath.Join(t.TempDir(), "out")
	r := run(t, "--dest", dest, src)
	gt.Error(t, r.err)
	gt.Equal(t, cli.ExitCode(r.err), cli.ExitIncomplete)
	gt.String(t, r.stdout).Contains("✗ bad.zip")
	gt.String(t, r.stdout).Contains("2 succeeded, 1 failed")

	_, err := os.Stat(filepath.Join(src, unarchive.DirName))
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_Empty(t *testing.T) {
	r := run(t, t.TempDir())
	gt.NoError(t, r.err)
	gt.String(t, r.stdout).Contains("0 succeeded, 0 failed, 0 skipped")
}

func TestRun_CurrentDirectory(t *testing.T) {
	src := source(t)
	t.Chdir(src)
	r := run(t)
	gt.NoError(t, r.err)
	gt.String(t, r.stdout).Contains("2 succeeded")
}

func TestRun_DryRun(t *testing.T) {
	src := source(t)
	r := run(t, "--dry-run", "--conflict", "rename", src)
	gt.NoError(t, r.err)
	gt.String(t, r.stdout).Contains("good.zip (zip: archive/zip")
	gt.String(t, r.stdout).Contains("2 archives, 1 other files")

	_, err := os.Stat(filepath.Join(src, unarchive.DirName))
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_ConfigFile(t *testing.T) {
	src := source(t)
	dest := filepath.Join(t.TempDir(), "from-config")
	conf := filepath.Join(t.TempDir(), "unarchive.toml")
	gt.NoError(t, os.WriteFile(conf, []byte("dest = \""+filepath.ToSlash(dest)+"\"\nconflict = \"skip\"\n"), 0o600))

	r := run(t, "--config", conf, src)
	gt.NoError(t, r.err)
	files, err := archivetest.Tree(dest)
	gt.NoError(t, err)
	gt.Equal(t, len(files), 3)
}

func TestRun_Fatal(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing source", args: []string{filepath.Join(t.TempDir(), "missing")}},
		{name: "bad conflict", args: []string{"--conflict", "merge", t.TempDir()}},
		{name: "bad log level", args: []string{"--log-level", "loud", t.TempDir()}},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "none.toml"), t.TempDir()}},
		{name: "too many arguments", args: []string{t.TempDir(), t.TempDir()}},
		{name: "unknown flag", args: []string{"--unknown", t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.args...)
			gt.Error(t, r.err)
			gt.Equal(t, cli.ExitCode(r.err), cli.ExitFatal)
		})
	}
}

func TestRun_Version(t *testing.T) {
	r := run(t, "--version")
	gt.NoError(t, r.err)
	gt.String(t, r.stdout).Contains(cli.Version)
}
