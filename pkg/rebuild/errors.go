package rebuild

import "errors"

var (
	ErrFileStat            = errors.New("rebuild: file stat failed")
	ErrSourcePath          = errors.New("rebuild: invalid source path")
	ErrRebuildHelperFailed = errors.New("rebuild: rebuild helper failed")
	ErrRelaunchFailed      = errors.New("rebuild: relaunch failed")
)
