package process

import (
	"fmt"
	"os"
	"time"

	"github.com/danmuck/neobuild/internal/observability"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Observer receives launch and reap events.
type Observer interface {
	Launched(pid Pid, shell command.Shell, line string)
	Reaped(report Report, err error)
}

// Launcher spawns commands through their shell and reaps the children.
type Launcher struct {
	logger    zerolog.Logger
	stdin     *os.File
	stdout    *os.File
	stderr    *os.File
	dir       string
	env       []string
	observers []Observer
	shellPath func(command.Shell) string
}

type Option func(*Launcher)

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// WithStdio replaces the inherited standard streams. Nil keeps the default.
func WithStdio(stdin, stdout, stderr *os.File) Option {
	return func(l *Launcher) {
		if stdin != nil {
			l.stdin = stdin
		}
		if stdout != nil {
			l.stdout = stdout
		}
		if stderr != nil {
			l.stderr = stderr
		}
	}
}

// WithDir runs children in dir instead of the current working directory.
func WithDir(dir string) Option {
	return func(l *Launcher) { l.dir = dir }
}

// WithEnv replaces the inherited environment.
func WithEnv(env []string) Option {
	return func(l *Launcher) { l.env = append([]string(nil), env...) }
}

func WithObserver(o Observer) Option {
	return func(l *Launcher) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		logger:    log.Logger,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		shellPath: command.Shell.Path,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Async renders cmd, logs the line and starts `<shell> -c <line>` without waiting.
func (l *Launcher) Async(cmd *command.Command) (Pid, error) {
	if cmd == nil {
		return InvalidPid, fmt.Errorf("%w: nil command", ErrRenderFailed)
	}
	line, err := cmd.Render()
	if err != nil {
		l.logger.Error().Err(err).Msg("render failed")
		return InvalidPid, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	l.logger.Info().Msgf("[CMD] %s", line)

	shell := cmd.Shell()
	path := l.shellPath(shell)
	pid, err := l.spawn(path, []string{path, "-c", line})
	observability.RecordLaunch(shell.String(), err == nil)
	if err != nil {
		l.logger.Error().Err(err).Str("shell", path).Msg("child process could not be started")
		return InvalidPid, err
	}

	l.logger.Debug().Int("pid", int(pid)).Str("shell", path).Msg("child started")
	for _, o := range l.observers {
		o.Launched(pid, shell, line)
	}
	return pid, nil
}

// Sync runs cmd and blocks until the child changes state. The child's own
// status lives in the report; only launch and wait problems are errors.
func (l *Launcher) Sync(cmd *command.Command, wantDiagnostics bool) (Report, error) {
	start := time.Now()
	pid, err := l.Async(cmd)
	if err != nil {
		return Report{Pid: InvalidPid}, err
	}
	report, err := l.Reap(pid, wantDiagnostics)
	observability.RecordRun(cmd.Shell().String(), report.Reason.String(), time.Since(start))
	return report, err
}

// Reap waits for pid and decodes its termination status.
func (l *Launcher) Reap(pid Pid, wantDiagnostics bool) (Report, error) {
	report, err := l.reap(pid, wantDiagnostics)
	for _, o := range l.observers {
		o.Reaped(report, err)
	}
	return report, err
}

func (l *Launcher) reap(pid Pid, wantDiagnostics bool) (Report, error) {
	if pid < 0 {
		return Report{Pid: pid}, fmt.Errorf("%w: pid=%d", ErrInvalidPid, pid)
	}

	report, err := l.wait(pid)
	if err != nil {
		if wantDiagnostics {
			l.logger.Error().Err(err).Msgf("wait on pid %d failed", pid)
		}
		return report, err
	}
	observability.RecordTermination(report.Reason.String())

	if wantDiagnostics {
		event := l.logger.Error()
		if report.Reason == Exited {
			event = l.logger.Info()
		}
		event.Msg(report.Describe())
	}

	if report.Reason == Unknown {
		return report, fmt.Errorf("%w: pid=%d unrecognised status %d", ErrWaitFailed, pid, report.Status)
	}
	return report, nil
}

var defaultLauncher = NewLauncher()

// Reap waits for pid with the default launcher.
func Reap(pid Pid, wantDiagnostics bool) (Report, error) {
	return defaultLauncher.Reap(pid, wantDiagnostics)
}
