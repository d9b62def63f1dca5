package rebuild

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BinaryPath strips the language suffix from source.
func BinaryPath(source string) (string, error) {
	ext := filepath.Ext(source)
	if strings.TrimSpace(source) == "" || ext == "" || ext == source || strings.HasSuffix(source, "/"+ext) {
		return "", fmt.Errorf("%w: %q has no suffix to strip", ErrSourcePath, source)
	}
	return strings.TrimSuffix(source, ext), nil
}

// HasSentinel reports whether sentinel appears among the arguments after the
// program name.
func HasSentinel(argv []string, sentinel string) bool {
	if len(argv) < 2 {
		return false
	}
	for _, arg := range argv[1:] {
		if arg == sentinel {
			return true
		}
	}
	return false
}

// ForwardedArgs drops the program name and appends sentinel exactly once.
func ForwardedArgs(argv []string, sentinel string) []string {
	out := make([]string, 0, len(argv)+1)
	if len(argv) > 1 {
		for _, arg := range argv[1:] {
			if arg == sentinel {
				continue
			}
			out = append(out, arg)
		}
	}
	return append(out, sentinel)
}

// commandPath makes a bare file name runnable from the working directory.
func commandPath(path string) string {
	if strings.Contains(path, "/") {
		return path
	}
	return "./" + path
}
