package rebuild

import "time"

type State int

const (
	Fresh State = iota
	UpToDate
	Stale
	Rebuilding
	RebuildFailed
	RebuildSucceeded
	Relaunching
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case UpToDate:
		return "up_to_date"
	case Stale:
		return "stale"
	case Rebuilding:
		return "rebuilding"
	case RebuildFailed:
		return "rebuild_failed"
	case RebuildSucceeded:
		return "rebuild_succeeded"
	case Relaunching:
		return "relaunching"
	default:
		return "invalid"
	}
}

// Snapshot is the freshness data gathered by one check.
type Snapshot struct {
	Source        string    `json:"source"`
	Binary        string    `json:"binary"`
	SourceModTime time.Time `json:"source_mod_time"`
	BinaryModTime time.Time `json:"binary_mod_time"`
	Forwarded     []string  `json:"forwarded,omitempty"`
}

// Stale reports whether the source was modified after the binary.
func (s Snapshot) Stale() bool {
	return s.SourceModTime.After(s.BinaryModTime)
}
