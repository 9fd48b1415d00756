// Package sequence runs ordered git command lists with a best-effort recovery list.
//
// A Plan holds the main commands and the commands that undo whatever state the
// main commands may have created. Runner executes the main commands in order,
// stops at the first failure, and then executes every recovery command while
// ignoring their individual outcomes. Commands are argument vectors handed to
// the git executable directly, so no shell ever re-interprets them.
package sequence
