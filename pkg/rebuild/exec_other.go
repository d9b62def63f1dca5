//go:build !unix

package rebuild

import "errors"

func execImage(path string, argv []string, env []string) error {
	return errors.New("rebuild: in-place exec unsupported on this platform")
}
