// Package ui renders what ghflow shows to people: human-readable command
// progress, colored workflow status lines, and confirmation prompts.
package ui
