// Package workflow drives a planned git workflow from the command line: it
// previews the plan on dry runs, asks for confirmation, optionally configures
// the contributor remote, runs the workflow, and reports the result.
package workflow
