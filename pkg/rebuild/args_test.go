package rebuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryPath(t *testing.T) {
	cases := map[string]string{
		"neo.go":           "neo",
		"neo.c":            "neo",
		"./build/neo.go":   "./build/neo",
		"/abs/dir.v2/x.go": "/abs/dir.v2/x",
	}
	for source, want := range cases {
		got, err := BinaryPath(source)
		require.NoError(t, err, source)
		assert.Equal(t, want, got, source)
	}

	for _, source := range []string{"", "neo", ".go", "dir/.go"} {
		_, err := BinaryPath(source)
		assert.ErrorIs(t, err, ErrSourcePath, source)
	}
}

func TestForwardedArgs(t *testing.T) {
	assert.Equal(t, []string{"--no-rebuild"}, ForwardedArgs([]string{"./neo"}, "--no-rebuild"))
	assert.Equal(t, []string{"--no-rebuild"}, ForwardedArgs(nil, "--no-rebuild"))
	assert.Equal(t,
		[]string{"a", "b c", "--no-rebuild"},
		ForwardedArgs([]string{"./neo", "a", "--no-rebuild", "b c"}, "--no-rebuild"),
	)
}

func TestHasSentinel(t *testing.T) {
	assert.True(t, HasSentinel([]string{"./neo", "x", "--no-rebuild"}, "--no-rebuild"))
	assert.False(t, HasSentinel([]string{"./neo", "--no-rebuild=1"}, "--no-rebuild"))
	assert.False(t, HasSentinel(nil, "--no-rebuild"))
	// the program name is never an argument
	assert.False(t, HasSentinel([]string{"--no-rebuild"}, "--no-rebuild"))
	assert.False(t, HasSentinel([]string{"--no-rebuild", "x"}, "--no-rebuild"))
}

func TestCommandPath(t *testing.T) {
	assert.Equal(t, "./neo", commandPath("neo"))
	assert.Equal(t, "build/neo", commandPath("build/neo"))
	assert.Equal(t, "/usr/bin/neo", commandPath("/usr/bin/neo"))
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "up_to_date", UpToDate.String())
	assert.Equal(t, "relaunching", Relaunching.String())
	assert.Equal(t, "invalid", State(99).String())
}
