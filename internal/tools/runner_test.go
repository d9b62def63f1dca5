package tools

import (
	"os"
	"testing"

	"github.com/danmuck/neobuild/pkg/command"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	cases := map[string]string{
		"":            "''",
		"main.c":      "main.c",
		"build/out-1": "build/out-1",
		"CFLAGS=-O2":  "CFLAGS=-O2",
		"hello world": "'hello world'",
		"it's":        `'it'"'"'s'`,
		"$(rm -rf /)": "'$(rm -rf /)'",
		"a&&b":        "'a&&b'",
	}
	for in, want := range cases {
		assert.Equal(t, want, Quote(in), "input %q", in)
	}
}

func TestShellAvailable(t *testing.T) {
	if _, err := os.Stat(command.ShPath); err != nil {
		t.Skip("/bin/sh not available")
	}
	assert.NoError(t, ShellAvailable(command.Sh))
}

func TestShellAvailableMissing(t *testing.T) {
	if _, err := os.Stat(command.DashPath); err == nil {
		t.Skip("/bin/dash present")
	}
	assert.ErrorIs(t, ShellAvailable(command.Dash), ErrShellUnavailable)
}
