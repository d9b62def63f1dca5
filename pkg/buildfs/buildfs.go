// Package buildfs holds the filesystem probes the build orchestrator relies on.
package buildfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
)

const DefaultDirMode fs.FileMode = 0o777

var ErrStat = errors.New("buildfs: stat failed")

// OS returns the host filesystem.
func OS() afero.Fs {
	return afero.NewOsFs()
}

// ModTime returns the last modification time of path.
func ModTime(fsys afero.Fs, path string) (time.Time, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrStat, path, err)
	}
	return info.ModTime(), nil
}

// Newer reports whether a was modified strictly after b.
func Newer(fsys afero.Fs, a, b string) (bool, error) {
	am, err := ModTime(fsys, a)
	if err != nil {
		return false, err
	}
	bm, err := ModTime(fsys, b)
	if err != nil {
		return false, err
	}
	return am.After(bm), nil
}

// Mkdir creates a single directory. A zero mode means DefaultDirMode.
// The parent has to exist already.
func Mkdir(fsys afero.Fs, path string, mode fs.FileMode) error {
	if path == "" {
		return fmt.Errorf("buildfs: mkdir: empty path")
	}
	if mode == 0 {
		mode = DefaultDirMode
	}
	if err := fsys.Mkdir(path, mode); err != nil {
		return fmt.Errorf("buildfs: creating dir %s failed: %w", path, err)
	}
	return nil
}

// IsNotExist unwraps err and reports a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// IsExist unwraps err and reports an already existing file.
func IsExist(err error) bool {
	return errors.Is(err, os.ErrExist)
}
