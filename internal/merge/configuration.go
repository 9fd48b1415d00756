package merge

import "strings"

const (
	defaultTargetBranchConstant          = "master"
	configurationKeySeparatorConstant    = "."
	configurationTargetBranchKeyConstant = "target_branch"
	configurationAssumeYesKeyConstant    = "assume_yes"
	configurationEnsureRemoteKeyConstant = "ensure_remote"
)

// CommandConfiguration captures persistent settings for the merge command.
type CommandConfiguration struct {
	TargetBranch string `mapstructure:"target_branch"`
	AssumeYes    bool   `mapstructure:"assume_yes"`
	EnsureRemote bool   `mapstructure:"ensure_remote"`
}

// DefaultCommandConfiguration returns baseline configuration values for the merge command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		TargetBranch: defaultTargetBranchConstant,
		AssumeYes:    false,
		EnsureRemote: false,
	}
}

// DefaultConfigurationValues returns the defaults keyed under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationTargetBranchKeyConstant: defaults.TargetBranch,
		rootKey + configurationKeySeparatorConstant + configurationAssumeYesKeyConstant:    defaults.AssumeYes,
		rootKey + configurationKeySeparatorConstant + configurationEnsureRemoteKeyConstant: defaults.EnsureRemote,
	}
}

// sanitize trims whitespace and restores the default target branch when blank.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.TargetBranch = strings.TrimSpace(configuration.TargetBranch)
	if len(sanitized.TargetBranch) == 0 {
		sanitized.TargetBranch = defaultTargetBranchConstant
	}

	return sanitized
}
