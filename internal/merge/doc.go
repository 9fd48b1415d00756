// Package merge provides the merge command, which fetches a pull request from
// a contributor remote, rebases it onto the target branch, merges it with an
// explicit merge commit, and pushes the result.
package merge
