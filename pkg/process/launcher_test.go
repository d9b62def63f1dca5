//go:build unix

package process

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/neobuild/internal/testutil/testlog"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(command.ShPath); err != nil {
		t.Skipf("%s not available: %v", command.ShPath, err)
	}
}

func mustCommand(t *testing.T, tokens ...string) *command.Command {
	t.Helper()
	cmd, err := command.From(command.Sh, tokens...)
	if err != nil {
		t.Fatalf("build command: %v", err)
	}
	t.Cleanup(cmd.Release)
	return cmd
}

type recordingObserver struct {
	mu       sync.Mutex
	launched []string
	reaped   []Report
}

func (o *recordingObserver) Launched(pid Pid, shell command.Shell, line string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.launched = append(o.launched, line)
}

func (o *recordingObserver) Reaped(report Report, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reaped = append(o.reaped, report)
}

func TestSyncReportsExitCode(t *testing.T) {
	requireShell(t)
	l := NewLauncher(WithLogger(testlog.Logger(t)))

	for _, code := range []int{0, 1, 3, 255} {
		report, err := l.Sync(mustCommand(t, "exit", strconv.Itoa(code)), false)
		if err != nil {
			t.Fatalf("sync exit %d: %v", code, err)
		}
		if report.Reason != Exited || report.Status != code {
			t.Fatalf("exit %d: unexpected report %+v", code, report)
		}
		if report.Pid <= 0 {
			t.Fatalf("expected a real pid, got %d", report.Pid)
		}
	}
}

func TestSyncReportsKillingSignal(t *testing.T) {
	requireShell(t)
	l := NewLauncher(WithLogger(testlog.Logger(t)))

	report, err := l.Sync(mustCommand(t, "kill", "-9", "$$"), false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if report.Reason != Killed || report.Status != int(unix.SIGKILL) {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestAsyncThenReap(t *testing.T) {
	requireShell(t)
	obs := &recordingObserver{}
	l := NewLauncher(WithLogger(testlog.Logger(t)), WithObserver(obs))

	pid, err := l.Async(mustCommand(t, "exit", "7"))
	if err != nil {
		t.Fatalf("async: %v", err)
	}
	report, err := l.Reap(pid, true)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}
	if report != (Report{Pid: pid, Reason: Exited, Status: 7}) {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(obs.launched) != 1 || obs.launched[0] != "exit 7 " {
		t.Fatalf("unexpected launched events: %q", obs.launched)
	}
	if len(obs.reaped) != 1 || obs.reaped[0].Status != 7 {
		t.Fatalf("unexpected reaped events: %+v", obs.reaped)
	}
}

func TestReapReportsStopThenKill(t *testing.T) {
	requireShell(t)
	l := NewLauncher(WithLogger(testlog.Logger(t)))

	pid, err := l.Async(mustCommand(t, "kill", "-STOP", "$$"))
	if err != nil {
		t.Fatalf("async: %v", err)
	}
	report, err := l.Reap(pid, true)
	if err != nil {
		t.Fatalf("reap stop: %v", err)
	}
	if report.Reason != Stopped || report.Status != int(unix.SIGSTOP) {
		t.Fatalf("unexpected stop report %+v", report)
	}

	if err := unix.Kill(int(pid), unix.SIGKILL); err != nil {
		t.Fatalf("kill: %v", err)
	}
	report, err = l.Reap(pid, false)
	if err != nil {
		t.Fatalf("reap kill: %v", err)
	}
	if report.Reason != Killed || report.Status != int(unix.SIGKILL) {
		t.Fatalf("unexpected kill report %+v", report)
	}
}

func TestReapInvalidPid(t *testing.T) {
	for _, pid := range []Pid{-1, -42} {
		if _, err := Reap(pid, true); !errors.Is(err, ErrInvalidPid) {
			t.Fatalf("pid %d: expected ErrInvalidPid, got %v", pid, err)
		}
	}
}

func TestReapNonChildFailsWait(t *testing.T) {
	l := NewLauncher(WithLogger(testlog.Logger(t)))
	if _, err := l.Reap(Pid(os.Getpid()), false); !errors.Is(err, ErrWaitFailed) {
		t.Fatalf("expected ErrWaitFailed, got %v", err)
	}
}

func TestAsyncRenderFailure(t *testing.T) {
	l := NewLauncher(WithLogger(testlog.Logger(t)))

	cmd, err := command.From(command.Sh, "true")
	if err != nil {
		t.Fatalf("build command: %v", err)
	}
	cmd.Release()

	pid, err := l.Async(cmd)
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if pid != InvalidPid {
		t.Fatalf("expected -1 pid, got %d", pid)
	}
	if _, err := l.Async(nil); !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed for nil command, got %v", err)
	}
}

func TestAsyncExecFailure(t *testing.T) {
	l := NewLauncher(WithLogger(testlog.Logger(t)))
	l.shellPath = func(command.Shell) string { return filepath.Join(t.TempDir(), "missing-shell") }

	pid, err := l.Async(mustCommand(t, "true"))
	if !errors.Is(err, ErrExecFailed) {
		t.Fatalf("expected ErrExecFailed, got %v", err)
	}
	if pid != InvalidPid {
		t.Fatalf("expected -1 pid, got %d", pid)
	}
	if _, err := l.Sync(mustCommand(t, "true"), false); !errors.Is(err, ErrExecFailed) {
		t.Fatalf("expected sync to surface ErrExecFailed, got %v", err)
	}
}

func TestChildInheritsStdoutAndDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	out, err := os.Create(filepath.Join(dir, "stdout.txt"))
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	defer out.Close()

	l := NewLauncher(WithLogger(testlog.Logger(t)), WithStdio(nil, out, nil), WithDir(dir), WithEnv([]string{"NEO_GREETING=hello"}))
	report, err := l.Sync(mustCommand(t, "echo", "$NEO_GREETING", "&&", "pwd"), false)
	if err != nil || !report.Success() {
		t.Fatalf("sync: report=%+v err=%v", report, err)
	}

	data, err := os.ReadFile(out.Name())
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	resolved, _ := filepath.EvalSymlinks(dir)
	if len(lines) != 2 || lines[0] != "hello" || (lines[1] != dir && lines[1] != resolved) {
		t.Fatalf("unexpected child output: %q", data)
	}
}

func TestDiagnosticsAndCommandLineAreLogged(t *testing.T) {
	requireShell(t)
	var buf bytes.Buffer
	l := NewLauncher(WithLogger(zerolog.New(&buf)))

	if _, err := l.Sync(mustCommand(t, "exit", "3"), true); err != nil {
		t.Fatalf("sync: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[CMD] exit 3 ") {
		t.Fatalf("rendered line not logged: %s", out)
	}
	if !strings.Contains(out, "exited normally with status 3") {
		t.Fatalf("diagnostic line not logged: %s", out)
	}

	buf.Reset()
	if _, err := l.Sync(mustCommand(t, "exit", "4"), false); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if strings.Contains(buf.String(), "exited normally") {
		t.Fatalf("diagnostics should be off: %s", buf.String())
	}
}
