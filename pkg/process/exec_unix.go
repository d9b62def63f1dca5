//go:build unix

package process

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func (l *Launcher) spawn(path string, argv []string) (Pid, error) {
	env := l.env
	if env == nil {
		env = os.Environ()
	}
	attr := &syscall.ProcAttr{
		Dir:   l.dir,
		Env:   env,
		Files: []uintptr{l.stdin.Fd(), l.stdout.Fd(), l.stderr.Fd()},
	}

	// ForkExec reports a failed exec through its status pipe after the child
	// has already exited, so the child never runs parent code.
	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM) {
			return InvalidPid, fmt.Errorf("%w: %w", ErrForkFailed, err)
		}
		return InvalidPid, fmt.Errorf("%w: %s: %w", ErrExecFailed, path, err)
	}
	return Pid(pid), nil
}

func (l *Launcher) wait(pid Pid) (Report, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(int(pid), &ws, unix.WUNTRACED, nil)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return Report{Pid: pid}, fmt.Errorf("%w: pid=%d: %w", ErrWaitFailed, pid, err)
	}
	reason, status := decodeWaitStatus(ws)
	return Report{Pid: pid, Reason: reason, Status: status}, nil
}

func decodeWaitStatus(ws unix.WaitStatus) (Reason, int) {
	switch {
	case ws.Exited():
		return Exited, ws.ExitStatus()
	case ws.Signaled() && ws.CoreDump():
		return Dumped, int(ws.Signal())
	case ws.Signaled():
		return Killed, int(ws.Signal())
	case ws.Stopped() && ws.StopSignal() == unix.SIGTRAP:
		return Trapped, int(ws.StopSignal())
	case ws.Stopped():
		return Stopped, int(ws.StopSignal())
	default:
		return Unknown, int(ws)
	}
}
