package rebuild

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/neobuild/internal/observability"
	"github.com/danmuck/neobuild/pkg/buildfs"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/danmuck/neobuild/pkg/process"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	DefaultHelper   = "./buildneo"
	DefaultSentinel = "--no-rebuild"
)

// Strategy selects how the rebuilt binary replaces the running one.
type Strategy string

const (
	// StrategyExec replaces the process image in place.
	StrategyExec Strategy = "exec"
	// StrategySpawn runs the new binary as a child, waits for it, then exits.
	StrategySpawn Strategy = "spawn"
)

// Runner runs a command to completion.
type Runner interface {
	Sync(cmd *command.Command, wantDiagnostics bool) (process.Report, error)
}

type Config struct {
	// Helper is the rebuild helper command; the source path is appended.
	Helper      []string
	Sentinel    string
	Shell       command.Shell
	Strategy    Strategy
	Diagnostics bool
	Fs          afero.Fs
	Runner      Runner
	Logger      *zerolog.Logger
	// Exec replaces the current process image. Returns only on failure.
	Exec func(path string, argv []string, env []string) error
	// Exit terminates the current process.
	Exit func(code int)
}

// Supervisor runs the self-rebuild check. It holds no state between runs.
type Supervisor struct {
	helper      []string
	sentinel    string
	shell       command.Shell
	strategy    Strategy
	diagnostics bool
	fs          afero.Fs
	runner      Runner
	logger      zerolog.Logger
	exec        func(path string, argv []string, env []string) error
	exit        func(code int)
}

func New(cfg Config) (*Supervisor, error) {
	s := &Supervisor{
		helper:      normalizeTokens(cfg.Helper),
		sentinel:    strings.TrimSpace(cfg.Sentinel),
		shell:       cfg.Shell,
		strategy:    cfg.Strategy,
		diagnostics: cfg.Diagnostics,
		fs:          cfg.Fs,
		runner:      cfg.Runner,
		exec:        cfg.Exec,
		exit:        cfg.Exit,
	}
	if len(s.helper) == 0 {
		s.helper = []string{DefaultHelper}
	}
	if s.sentinel == "" {
		s.sentinel = DefaultSentinel
	}
	switch s.strategy {
	case "":
		s.strategy = StrategyExec
	case StrategyExec, StrategySpawn:
	default:
		return nil, fmt.Errorf("rebuild: unknown relaunch strategy %q", cfg.Strategy)
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	} else {
		s.logger = log.Logger
	}
	if s.fs == nil {
		s.fs = buildfs.OS()
	}
	if s.runner == nil {
		s.runner = process.NewLauncher(process.WithLogger(s.logger))
	}
	if s.exec == nil {
		s.exec = execImage
	}
	if s.exit == nil {
		s.exit = os.Exit
	}
	return s, nil
}

func (s *Supervisor) Sentinel() string {
	return s.sentinel
}

// Run performs the check for source with the full process argv.
//
// It returns UpToDate when nothing had to happen, RebuildFailed with
// ErrRebuildHelperFailed when the stale binary should keep running, and any
// other error for fatal conditions. After a successful rebuild Run does not
// return.
func (s *Supervisor) Run(source string, argv []string) (State, error) {
	state, err := s.run(source, argv)
	if state != Relaunching {
		observability.RecordRebuild(state.String())
	}
	return state, err
}

func (s *Supervisor) run(source string, argv []string) (State, error) {
	if HasSentinel(argv, s.sentinel) {
		s.logger.Debug().Str("sentinel", s.sentinel).Msg("[neorebuild] sentinel present, skipping rebuild check")
		return UpToDate, nil
	}

	state, snap, err := s.Check(source)
	if err != nil {
		s.logger.Error().Err(err).Msg("[neorebuild] freshness check failed")
		return Fresh, err
	}
	if state == UpToDate {
		s.logger.Info().Msgf("[neorebuild] No rebuild required for %s (not modified)", source)
		return UpToDate, nil
	}
	snap.Forwarded = ForwardedArgs(argv, s.sentinel)

	s.logger.Info().Msgf("[neorebuild] The build file %s was modified since it was last built", source)
	s.logger.Info().Msgf("[neorebuild] Rebuilding %s", source)
	if err := s.rebuild(snap); err != nil {
		s.logger.Error().Err(err).Msgf("[neorebuild] Rebuilding %s failed", source)
		s.logger.Info().Msgf("[neorebuild] Running the old version of %s", snap.Binary)
		return RebuildFailed, err
	}

	return s.relaunch(snap)
}

// Check compares source and binary modification times without side effects.
func (s *Supervisor) Check(source string) (State, Snapshot, error) {
	binary, err := BinaryPath(source)
	if err != nil {
		return Fresh, Snapshot{}, err
	}
	snap := Snapshot{Source: source, Binary: binary}

	if snap.SourceModTime, err = buildfs.ModTime(s.fs, source); err != nil {
		return Fresh, snap, fmt.Errorf("%w: %w", ErrFileStat, err)
	}
	if snap.BinaryModTime, err = buildfs.ModTime(s.fs, binary); err != nil {
		return Fresh, snap, fmt.Errorf("%w: %w", ErrFileStat, err)
	}
	if snap.Stale() {
		return Stale, snap, nil
	}
	return UpToDate, snap, nil
}

func (s *Supervisor) rebuild(snap Snapshot) error {
	tokens := append(append([]string(nil), s.helper...), snap.Source)
	cmd, err := command.From(s.shell, tokens...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuildHelperFailed, err)
	}
	defer cmd.Release()

	report, err := s.runner.Sync(cmd, s.diagnostics)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuildHelperFailed, err)
	}
	if !report.Success() {
		return fmt.Errorf("%w: %s", ErrRebuildHelperFailed, report.Describe())
	}
	return nil
}

func (s *Supervisor) relaunch(snap Snapshot) (State, error) {
	path := commandPath(snap.Binary)
	argv := append([]string{path}, snap.Forwarded...)
	s.logger.Info().Msgf("[neorebuild] Running the new version of %s and exiting the current running version", snap.Binary)
	observability.RecordRebuild(Relaunching.String())

	if s.strategy == StrategyExec {
		err := s.exec(path, argv, os.Environ())
		// exec only comes back on failure
		s.logger.Warn().Err(err).Str("binary", path).Msg("[neorebuild] in-place relaunch failed, spawning instead")
	}

	cmd, err := command.From(s.shell, argv...)
	if err != nil {
		return s.relaunchFailed(snap, err)
	}
	defer cmd.Release()

	report, err := s.runner.Sync(cmd, s.diagnostics)
	if err != nil {
		return s.relaunchFailed(snap, err)
	}
	s.logger.Debug().Str("report", report.Describe()).Msg("[neorebuild] relaunched binary finished")
	s.exit(0)
	return Relaunching, nil
}

func (s *Supervisor) relaunchFailed(snap Snapshot, err error) (State, error) {
	s.logger.Error().Err(err).Msgf("[neorebuild] Failed running the new version of %s; Continuing with the current running version", snap.Binary)
	return RebuildSucceeded, fmt.Errorf("%w: %w", ErrRelaunchFailed, err)
}

func normalizeTokens(in []string) []string {
	out := make([]string, 0, len(in))
	for _, token := range in {
		if v := strings.TrimSpace(token); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Recoverable reports whether err from Run leaves the current binary fit to
// keep running: the helper failed, or the rebuilt binary could not be started.
func Recoverable(err error) bool {
	return errors.Is(err, ErrRebuildHelperFailed) || errors.Is(err, ErrRelaunchFailed)
}
