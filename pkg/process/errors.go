package process

import "errors"

var (
	ErrForkFailed   = errors.New("process: fork failed")
	ErrExecFailed   = errors.New("process: exec failed")
	ErrRenderFailed = errors.New("process: command render failed")
	ErrInvalidPid   = errors.New("process: invalid pid")
	ErrWaitFailed   = errors.New("process: wait failed")
	ErrUnsupported  = errors.New("process: unsupported platform")
)
