//go:build !unix

package process

import "fmt"

func (l *Launcher) spawn(path string, argv []string) (Pid, error) {
	return InvalidPid, fmt.Errorf("%w: %w", ErrForkFailed, ErrUnsupported)
}

func (l *Launcher) wait(pid Pid) (Report, error) {
	return Report{Pid: pid}, fmt.Errorf("%w: %w", ErrWaitFailed, ErrUnsupported)
}
