package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/neobuild/pkg/command"
)

var ErrShellUnavailable = errors.New("tools: shell unavailable")

// ShellAvailable reports whether the interpreter for s exists and is executable.
func ShellAvailable(s command.Shell) error {
	path := s.Path()
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrShellUnavailable, path, err)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s is not executable", ErrShellUnavailable, path)
	}
	return nil
}

// Quote single-quotes value unless it is made only of characters every
// supported shell passes through unchanged.
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	if strings.IndexFunc(value, unsafeRune) < 0 {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func unsafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./=:,+@%", r):
		return false
	default:
		return true
	}
}
