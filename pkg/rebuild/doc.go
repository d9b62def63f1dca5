// Package rebuild implements the self-rebuild check a build script runs at startup.
//
// A Supervisor compares the script source against its compiled binary. When the
// source is newer it runs the rebuild helper and relaunches the fresh binary with
// the original arguments plus a sentinel token. The sentinel disables the check
// in the relaunched process so a rebuild can never recurse.
//
//	Fresh -> UpToDate
//	Fresh -> Stale -> Rebuilding -> RebuildFailed
//	Fresh -> Stale -> Rebuilding -> RebuildSucceeded -> Relaunching
//
// Relaunching never returns to the caller.
package rebuild
