// Package history provides read-only commands over the repository history:
// merge changelogs, the most recent tag, and the pull request that merged a commit.
package history
