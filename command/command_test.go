package command_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Defacto2/unarchive/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	prog := filepath.Join(tmp, "my7z")
	require.NoError(t, os.WriteFile(prog, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, prog, command.Lookup(prog, []string{"no-such-program-x1"}))
	assert.Empty(t, command.Lookup("", []string{"no-such-program-x1"}))
	// a directory or missing override falls through to the known paths
	assert.Empty(t, command.Lookup(tmp, nil))
	assert.Equal(t, prog, command.Lookup(filepath.Join(tmp, "missing"), nil, "/no/such/7z", prog))
}

func TestResolve(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	fake := filepath.Join(tmp, "fake-unrar")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))

	tools := command.Resolve(context.Background(), command.Tools{Unrar: fake, Unar: fake})
	assert.Equal(t, fake, tools.Unrar)
	assert.Equal(t, fake, tools.Unar)
}

func TestIsBSDTar(t *testing.T) {
	t.Parallel()
	assert.False(t, command.IsBSDTar(context.Background(), "/no/such/tar"))
}

func TestTools_LogValue(t *testing.T) {
	t.Parallel()
	v := command.Tools{Zip7: "/usr/bin/7zz"}.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())
	s := v.String()
	assert.True(t, strings.Contains(s, "/usr/bin/7zz"), s)
	assert.True(t, strings.Contains(s, "unrar=no"), s)
}

func TestZip7Names(t *testing.T) {
	t.Parallel()
	names := command.Zip7Names()
	require.NotEmpty(t, names)
	assert.Equal(t, command.Zip7, names[0])
	assert.NotEmpty(t, command.Zip7Paths())
}
