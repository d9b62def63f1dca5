// Package process launches rendered commands through a shell and reaps them.
//
// Ownership boundary:
// - fork/exec of `<shell> -c <line>` with inherited standard streams
//
// - blocking wait and termination status decoding
//
// - launch/termination diagnostics, metrics and observer fan-out
//
// A Pid returned by Launcher.Async is a plain value. The caller reaps it exactly
// once; an unreaped child stays a zombie until this process exits.
package process
