// Package gitrepo parses and formats git remote URLs so a fork remote can be
// derived from the origin of the current repository.
package gitrepo
