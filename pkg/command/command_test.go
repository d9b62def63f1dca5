package command

import (
	"path/filepath"
	"strings"
	"testing"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderJoinsTokensWithTrailingSpace(t *testing.T) {
	cases := map[string][]string{
		"empty":    {},
		"single":   {"ls"},
		"compile":  {"clang", "-Wall", "main.c", "-o", "main"},
		"embedded": {"clang", "main.c", "&& ./main"},
		"blank":    {"", "x", ""},
	}

	for name, tokens := range cases {
		t.Run(name, func(t *testing.T) {
			cmd, err := From(Bash, tokens...)
			require.NoError(t, err)
			defer cmd.Release()

			var want strings.Builder
			for _, token := range tokens {
				want.WriteString(token + " ")
			}

			got, err := cmd.Render()
			require.NoError(t, err)
			assert.Equal(t, want.String(), got)
		})
	}
}

func TestRenderIsNonDestructive(t *testing.T) {
	cmd, err := From(Sh, "echo", "hi")
	require.NoError(t, err)
	defer cmd.Release()

	first, err := cmd.Render()
	require.NoError(t, err)
	second, err := cmd.Render()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, cmd.Len())
}

func TestRenderDoesNotEscape(t *testing.T) {
	cmd, err := From(Bash, "echo", "a b", `'q'`, "$HOME")
	require.NoError(t, err)
	defer cmd.Release()

	got, err := cmd.Render()
	require.NoError(t, err)
	assert.Equal(t, `echo a b 'q' $HOME `, got)

	// the shell sees "a b" as two words because nothing was escaped
	words, err := shlex.Split(got, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "a", "b", "q", "$HOME"}, words)
}

func TestRenderGolden(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cmd, err := New(Bash)
	require.NoError(t, err)
	defer cmd.Release()
	require.NoError(t, cmd.Append("clang", "-Wall", "temporary.c", "-o", "main"))
	require.NoError(t, cmd.Append("&& ./main"))

	got, err := cmd.Render()
	require.NoError(t, err)
	g.Assert(t, "render_compile", []byte(got))
}

func TestAppendRollsBackOnLimit(t *testing.T) {
	cmd, err := New(Dash, WithMaxTokens(3))
	require.NoError(t, err)
	defer cmd.Release()

	require.NoError(t, cmd.Append("a", "b"))
	err = cmd.Append("c", "d")
	require.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, []string{"a", "b"}, cmd.Tokens())

	require.NoError(t, cmd.Append("c"))
	assert.Equal(t, []string{"a", "b", "c"}, cmd.Tokens())
}

func TestAppendCopiesTokens(t *testing.T) {
	cmd, err := New(Bash)
	require.NoError(t, err)
	defer cmd.Release()

	tokens := []string{"one", "two"}
	require.NoError(t, cmd.Append(tokens...))
	tokens[0] = "changed"

	got := cmd.Tokens()
	got[1] = "mutated"
	assert.Equal(t, []string{"one", "two"}, cmd.Tokens())
}

func TestNewRejectsInvalidLimits(t *testing.T) {
	_, err := New(Bash, WithMaxTokens(0))
	require.ErrorIs(t, err, ErrAllocation)

	_, err = New(Bash, WithCapacity(10), WithMaxTokens(5))
	require.ErrorIs(t, err, ErrAllocation)

	_, err = New(Bash, WithCapacity(-1))
	require.ErrorIs(t, err, ErrAllocation)

	_, err = New(Bash, WithCapacity(0))
	require.ErrorIs(t, err, ErrAllocation)
}

func TestSmallLimitWithoutCapacity(t *testing.T) {
	cmd, err := New(Sh, WithMaxTokens(1))
	require.NoError(t, err)
	defer cmd.Release()

	require.ErrorIs(t, cmd.Append("echo", "hi"), ErrAllocation)
	assert.Equal(t, 0, cmd.Len())
	require.NoError(t, cmd.Append("true"))

	cmd2, err := New(Sh, WithCapacity(2), WithMaxTokens(2))
	require.NoError(t, err)
	defer cmd2.Release()
	require.NoError(t, cmd2.Append("a", "b"))
}

func TestReleasedCommandFails(t *testing.T) {
	cmd, err := From(Bash, "true")
	require.NoError(t, err)
	cmd.Release()

	_, err = cmd.Render()
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, cmd.Append("x"), ErrAllocation)

	var nilCmd *Command
	_, err = nilCmd.Render()
	require.ErrorIs(t, err, ErrRender)
}

func TestShellPathMapping(t *testing.T) {
	assert.Equal(t, "/bin/bash", Bash.Path())
	assert.Equal(t, "/bin/sh", Sh.Path())
	assert.Equal(t, "/bin/dash", Dash.Path())
	assert.Equal(t, "/bin/bash", Shell(42).Path())
	assert.Equal(t, "unknown", Shell(42).String())
}

func TestParseShell(t *testing.T) {
	for name, want := range map[string]Shell{"bash": Bash, " SH ": Sh, "/bin/dash": Dash} {
		got, ok := ParseShell(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	got, ok := ParseShell("zsh")
	assert.False(t, ok)
	assert.Equal(t, Bash, got)
}

func TestShellTextRoundTrip(t *testing.T) {
	for _, shell := range []Shell{Bash, Sh, Dash} {
		text, err := shell.MarshalText()
		require.NoError(t, err)

		var got Shell
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, shell, got)
	}

	got := Dash
	require.NoError(t, got.UnmarshalText([]byte("zsh")))
	assert.Equal(t, Bash, got)
}
