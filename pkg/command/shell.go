package command

import "strings"

// Shell selects the interpreter a rendered command line is handed to.
type Shell int

const (
	Bash Shell = iota
	Sh
	Dash
)

const (
	BashPath = "/bin/bash"
	ShPath   = "/bin/sh"
	DashPath = "/bin/dash"
)

// Path returns the absolute shell binary for s. Values outside the enum run as bash.
func (s Shell) Path() string {
	switch s {
	case Sh:
		return ShPath
	case Dash:
		return DashPath
	default:
		return BashPath
	}
}

func (s Shell) String() string {
	switch s {
	case Bash:
		return "bash"
	case Sh:
		return "sh"
	case Dash:
		return "dash"
	default:
		return "unknown"
	}
}

// ParseShell maps a config or CLI name to a Shell. Unknown names fall back to
// Bash with ok=false so callers can warn.
func ParseShell(name string) (Shell, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bash", "/bin/bash":
		return Bash, true
	case "sh", "/bin/sh":
		return Sh, true
	case "dash", "/bin/dash":
		return Dash, true
	default:
		return Bash, false
	}
}

func (s Shell) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names ParseShell does. Anything else decodes as Bash.
func (s *Shell) UnmarshalText(text []byte) error {
	*s, _ = ParseShell(string(text))
	return nil
}
