// Package branchsync provides the sync command, which updates a local branch
// from a contributor remote and pushes it to another remote.
package branchsync
