// Package remotes derives fork remote URLs from the origin remote and makes
// sure a contributor's remote is configured before workflows fetch from it.
package remotes
