// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging, lifecycle observers
// and per-command timeouts. OSCommandRunner is the os/exec backed runner; it
// starts every process in the working directory named by the command instead
// of relying on the process-wide current directory.
package execshell
