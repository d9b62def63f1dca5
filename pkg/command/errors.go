package command

import "errors"

var (
	ErrAllocation = errors.New("command: argument container allocation failed")
	ErrRender     = errors.New("command: render failed")
	ErrOutOfRange = errors.New("command: index out of range")
)
