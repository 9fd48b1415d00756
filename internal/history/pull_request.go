package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	pullRequestUseConstant              = "pr-for-sha <sha>"
	pullRequestShortDescriptionConstant = "Find the pull request merge that brought a commit into a branch"
	pullRequestLongDescriptionConstant  = "pr-for-sha walks the ancestry path from <sha> to --branch and prints the first merge commit, prefixed with its pull request number when the subject names one."
	branchFlagNameConstant              = "branch"
	branchFlagUsageConstant             = "Branch the commit was merged into"
	defaultBranchFlagValueConstant      = "HEAD"
	pullRequestLineTemplateConstant     = "#%d %s\n"
)

// PullRequestCommandBuilder assembles the pr-for-sha command.
type PullRequestCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  sequence.GitExecutor
}

// Build constructs the pr-for-sha command.
func (builder *PullRequestCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          pullRequestUseConstant,
		Short:        pullRequestShortDescriptionConstant,
		Long:         pullRequestLongDescriptionConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.run,
	}
	command.Flags().String(branchFlagNameConstant, defaultBranchFlagValueConstant, branchFlagUsageConstant)
	return command, nil
}

func (builder *PullRequestCommandBuilder) run(command *cobra.Command, arguments []string) error {
	branch, _ := command.Flags().GetString(branchFlagNameConstant)

	helper, helperError := resolveHelper(command, builder.LoggerProvider, builder.HumanReadableLoggingProvider, builder.GitExecutor)
	if helperError != nil {
		return helperError
	}

	mergeCommit, found, queryError := helper.PullRequestForCommit(command.Context(), arguments[0], branch)
	if queryError != nil {
		return queryError
	}
	if !found {
		return ErrNoMergeFound
	}
	if mergeCommit.PullRequestNumber > 0 {
		fmt.Fprintf(command.OutOrStdout(), pullRequestLineTemplateConstant, mergeCommit.PullRequestNumber, mergeCommit.Line)
		return nil
	}
	fmt.Fprintf(command.OutOrStdout(), outputLineTemplateConstant, mergeCommit.Line)
	return nil
}
