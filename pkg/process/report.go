package process

import "fmt"

// Pid identifies a child started by Launcher.Async. -1 marks a failed launch.
type Pid int

const InvalidPid Pid = -1

// Reason is the decoded cause of a child state change.
type Reason int

const (
	Unknown Reason = iota
	Exited
	Killed
	Dumped
	Stopped
	Trapped
)

func (r Reason) String() string {
	switch r {
	case Exited:
		return "exited"
	case Killed:
		return "killed"
	case Dumped:
		return "dumped"
	case Stopped:
		return "stopped"
	case Trapped:
		return "trapped"
	default:
		return "unknown"
	}
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText maps a reason name back. Unrecognised names decode as Unknown.
func (r *Reason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exited":
		*r = Exited
	case "killed":
		*r = Killed
	case "dumped":
		*r = Dumped
	case "stopped":
		*r = Stopped
	case "trapped":
		*r = Trapped
	default:
		*r = Unknown
	}
	return nil
}

// Report is produced once per reap. Status is the exit code for Exited and the
// signal number otherwise.
type Report struct {
	Pid    Pid    `json:"pid"`
	Reason Reason `json:"reason"`
	Status int    `json:"status"`
}

// Success reports a normal exit with status 0.
func (r Report) Success() bool {
	return r.Reason == Exited && r.Status == 0
}

// Describe renders the one-line diagnostic for r.
func (r Report) Describe() string {
	switch r.Reason {
	case Exited:
		return fmt.Sprintf("shell process %d exited normally with status %d", r.Pid, r.Status)
	case Killed:
		return fmt.Sprintf("shell process %d was killed by signal %d", r.Pid, r.Status)
	case Dumped:
		return fmt.Sprintf("shell process %d was killed by signal %d (core dumped)", r.Pid, r.Status)
	case Stopped:
		return fmt.Sprintf("shell process %d was stopped by signal %d", r.Pid, r.Status)
	case Trapped:
		return fmt.Sprintf("shell process %d was trapped by signal %d (traced child)", r.Pid, r.Status)
	default:
		return fmt.Sprintf("shell process %d terminated in an unknown way (status: %d)", r.Pid, r.Status)
	}
}
