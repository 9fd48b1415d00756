// Package cli constructs the ghflow command-line interface. It wires the Cobra
// command hierarchy, the Viper configuration loader, and the zap logger, and
// registers the merge, sync, remote, and history commands.
package cli
