// Package execshell provides structured helpers for invoking the git executable.
//
// It wraps os/exec with zap logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and reports failures through typed errors so
// that callers can distinguish a non-zero exit from a process that never ran.
package execshell
