// Package gitflow implements the pull-request merge and branch sync workflows
// on top of the sequence runner, together with the single-command git queries
// those workflows and the CLI rely on.
package gitflow
