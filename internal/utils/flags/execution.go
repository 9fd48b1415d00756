// Package flags binds the execution flags shared by the workflow commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName previews the command plan without running it.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the dry-run flag.
	DryRunFlagUsage = "Print the git commands and recovery commands without running them"
	// AssumeYesFlagName skips the confirmation prompt.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand is the shorthand for AssumeYesFlagName.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the assume-yes flag.
	AssumeYesFlagUsage = "Run without asking for confirmation"
	// EnsureRemoteFlagName adds the username remote before running when it is missing.
	EnsureRemoteFlagName = "ensure-remote"
	// EnsureRemoteFlagUsage describes the ensure-remote flag.
	EnsureRemoteFlagUsage = "Add the username remote derived from origin when it is not configured"
)

// ExecutionDefaults describes default flag values.
type ExecutionDefaults struct {
	DryRun       bool
	AssumeYes    bool
	EnsureRemote bool
}

// ExecutionFlagDefinitions enables individual execution flags.
type ExecutionFlagDefinitions struct {
	DryRun       bool
	AssumeYes    bool
	EnsureRemote bool
}

// ExecutionValues holds the parsed execution flags.
type ExecutionValues struct {
	DryRun       bool
	AssumeYes    bool
	EnsureRemote bool
}

// BindExecutionFlags attaches the enabled execution flags to command.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	if definitions.DryRun {
		flagSet.Bool(DryRunFlagName, defaults.DryRun, DryRunFlagUsage)
	}
	if definitions.AssumeYes {
		flagSet.BoolP(AssumeYesFlagName, AssumeYesFlagShorthand, defaults.AssumeYes, AssumeYesFlagUsage)
	}
	if definitions.EnsureRemote {
		flagSet.Bool(EnsureRemoteFlagName, defaults.EnsureRemote, EnsureRemoteFlagUsage)
	}
}

// ReadExecutionFlags returns the execution flag values, falling back to defaults
// for flags the user did not set or the command does not define.
func ReadExecutionFlags(command *cobra.Command, defaults ExecutionDefaults) ExecutionValues {
	values := ExecutionValues{DryRun: defaults.DryRun, AssumeYes: defaults.AssumeYes, EnsureRemote: defaults.EnsureRemote}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	values.DryRun = readBool(flagSet, DryRunFlagName, values.DryRun)
	values.AssumeYes = readBool(flagSet, AssumeYesFlagName, values.AssumeYes)
	values.EnsureRemote = readBool(flagSet, EnsureRemoteFlagName, values.EnsureRemote)
	return values
}

func readBool(flagSet *pflag.FlagSet, name string, fallback bool) bool {
	if flagSet.Lookup(name) == nil || !flagSet.Changed(name) {
		return fallback
	}
	value, readError := flagSet.GetBool(name)
	if readError != nil {
		return fallback
	}
	return value
}
