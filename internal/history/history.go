// Package history keeps the most recent launches and their termination reports.
package history

import (
	"sync"
	"time"

	"github.com/danmuck/neobuild/pkg/command"
	"github.com/danmuck/neobuild/pkg/process"
	"github.com/google/uuid"
)

const DefaultCapacity = 128

// Run is one launched child.
type Run struct {
	ID       string          `json:"id"`
	Pid      process.Pid     `json:"pid"`
	Shell    string          `json:"shell"`
	Line     string          `json:"line"`
	Started  time.Time       `json:"started"`
	Finished *time.Time      `json:"finished,omitempty"`
	Report   *process.Report `json:"report,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Recorder is a bounded, concurrency-safe run log. It satisfies process.Observer.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	runs     []Run
	byPid    map[process.Pid]int
	now      func() time.Time
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		capacity: capacity,
		byPid:    make(map[process.Pid]int),
		now:      time.Now,
	}
}

func (r *Recorder) Launched(pid process.Pid, shell command.Shell, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.runs) == r.capacity {
		r.evictOldest()
	}
	r.runs = append(r.runs, Run{
		ID:      uuid.NewString(),
		Pid:     pid,
		Shell:   shell.String(),
		Line:    line,
		Started: r.now(),
	})
	r.byPid[pid] = len(r.runs) - 1
}

func (r *Recorder) Reaped(report process.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byPid[report.Pid]
	if !ok {
		return
	}
	run := &r.runs[idx]
	finished := r.now()
	rep := report
	run.Report = &rep
	if err != nil {
		run.Error = err.Error()
	}
	// a stopped child is reaped again later
	if report.Reason == process.Stopped || report.Reason == process.Trapped {
		return
	}
	run.Finished = &finished
	delete(r.byPid, report.Pid)
}

func (r *Recorder) evictOldest() {
	// a reused pid may already point at a newer run
	if pid := r.runs[0].Pid; r.byPid[pid] == 0 {
		delete(r.byPid, pid)
	}
	r.runs = append(r.runs[:0], r.runs[1:]...)
	for pid, idx := range r.byPid {
		r.byPid[pid] = idx - 1
	}
}

// Snapshot returns a copy of the recorded runs, oldest first.
func (r *Recorder) Snapshot() []Run {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Run, len(r.runs))
	copy(out, r.runs)
	return out
}

// Get returns the run with id.
func (r *Recorder) Get(id string) (Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, run := range r.runs {
		if run.ID == id {
			return run, true
		}
	}
	return Run{}, false
}
