package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitVerifyFlagConstant             = "--verify"
	gitHeadReferenceConstant          = "HEAD"
	gitRemoteSubcommandNameConstant   = "remote"
	gitRemoteShowSubcommandConstant   = "show"
	gitRemoteAddSubcommandConstant    = "add"
	gitRemoteGetURLSubcommandConstant = "get-url"
	gitStatusSubcommandNameConstant   = "status"
	gitAddSubcommandNameConstant      = "add"
	gitStashSubcommandNameConstant    = "stash"
	gitStashPopSubcommandConstant     = "pop"
	gitFetchSubcommandNameConstant    = "fetch"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitNewBranchFlagConstant          = "-b"
	gitRebaseSubcommandNameConstant   = "rebase"
	gitMergeSubcommandNameConstant    = "merge"
	gitMessageFlagConstant            = "-m"
	gitBranchSubcommandNameConstant   = "branch"
	gitDeleteShortFlagConstant        = "-d"
	gitDeleteLongFlagConstant         = "--delete"
	gitPushSubcommandNameConstant     = "push"
	gitDescribeSubcommandNameConstant = "describe"
	gitLogSubcommandNameConstant      = "log"
	gitFetchAllRemotesLabelConstant   = "all remotes"
)

var (
	gitCurrentBranchMessages = messageTemplates{
		start:            "Identifying current branch in %s",
		success:          "Identified current branch in %s",
		failure:          "Failed to identify current branch in %s (exit code %d%s)",
		executionFailure: "Unable to identify current branch in %s: %s",
	}
	gitVerifyMessages = messageTemplates{
		start:            "Checking whether %s exists in %s",
		success:          "%s exists in %s",
		failure:          "%s does not resolve in %s (exit code %d%s)",
		executionFailure: "Unable to check %s in %s: %s",
	}
	gitStatusMessages = messageTemplates{
		start:            "Reviewing working tree status in %s",
		success:          "Collected working tree status for %s",
		failure:          "Failed to review working tree status in %s (exit code %d%s)",
		executionFailure: "Unable to review working tree status in %s: %s",
	}
	gitRemoteShowMessages = messageTemplates{
		start:            "Looking up remote %s in %s",
		success:          "Remote %s is configured in %s",
		failure:          "Remote %s is not configured in %s (exit code %d%s)",
		executionFailure: "Unable to look up remote %s in %s: %s",
	}
	gitRemoteAddMessages = messageTemplates{
		start:            "Adding remote %s pointing to %s in %s",
		success:          "Added remote %s pointing to %s in %s",
		failure:          "Failed to add remote %s pointing to %s in %s (exit code %d%s)",
		executionFailure: "Unable to add remote %s pointing to %s in %s: %s",
	}
	gitRemoteGetURLMessages = messageTemplates{
		start:            "Reading URL of remote %s in %s",
		success:          "Read URL of remote %s in %s",
		failure:          "Failed to read URL of remote %s in %s (exit code %d%s)",
		executionFailure: "Unable to read URL of remote %s in %s: %s",
	}
	gitAddMessages = messageTemplates{
		start:            "Staging %s in %s",
		success:          "Staged %s in %s",
		failure:          "Failed to stage %s in %s (exit code %d%s)",
		executionFailure: "Unable to stage %s in %s: %s",
	}
	gitStashMessages = messageTemplates{
		start:            "Stashing local changes in %s",
		success:          "Stashed local changes in %s",
		failure:          "Failed to stash local changes in %s (exit code %d%s)",
		executionFailure: "Unable to stash local changes in %s: %s",
	}
	gitStashPopMessages = messageTemplates{
		start:            "Restoring stashed changes in %s",
		success:          "Restored stashed changes in %s",
		failure:          "Failed to restore stashed changes in %s (exit code %d%s)",
		executionFailure: "Unable to restore stashed changes in %s: %s",
	}
	gitFetchMessages = messageTemplates{
		start:            "Fetching %s from %s in %s",
		success:          "Fetched %s from %s in %s",
		failure:          "Failed to fetch %s from %s in %s (exit code %d%s)",
		executionFailure: "Unable to fetch %s from %s in %s: %s",
	}
	gitFetchWithoutReferencesMessages = messageTemplates{
		start:            "Fetching from %s in %s",
		success:          "Fetched from %s in %s",
		failure:          "Failed to fetch from %s in %s (exit code %d%s)",
		executionFailure: "Unable to fetch from %s in %s: %s",
	}
	gitCheckoutMessages = messageTemplates{
		start:            "Switching %s to branch %s",
		success:          "%s now on branch %s",
		failure:          "Failed to switch %s to branch %s (exit code %d%s)",
		executionFailure: "Unable to switch %s to branch %s: %s",
	}
	gitCheckoutNewBranchMessages = messageTemplates{
		start:            "Creating branch %s from %s in %s",
		success:          "Created branch %s from %s in %s",
		failure:          "Failed to create branch %s from %s in %s (exit code %d%s)",
		executionFailure: "Unable to create branch %s from %s in %s: %s",
	}
	gitRebaseMessages = messageTemplates{
		start:            "Rebasing onto %s in %s",
		success:          "Rebased onto %s in %s",
		failure:          "Failed to rebase onto %s in %s (exit code %d%s)",
		executionFailure: "Unable to rebase onto %s in %s: %s",
	}
	gitMergeMessages = messageTemplates{
		start:            "Merging %s in %s with message %q",
		success:          "Merged %s in %s with message %q",
		failure:          "Failed to merge %s in %s with message %q (exit code %d%s)",
		executionFailure: "Unable to merge %s in %s with message %q: %s",
	}
	gitBranchDeletionMessages = messageTemplates{
		start:            "Removing local branch %s in %s",
		success:          "Removed local branch %s in %s",
		failure:          "Failed to remove local branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to remove local branch %s in %s: %s",
	}
	gitPushMessages = messageTemplates{
		start:            "Pushing %s to %s from %s",
		success:          "Pushed %s to %s from %s",
		failure:          "Failed to push %s to %s from %s (exit code %d%s)",
		executionFailure: "Unable to push %s to %s from %s: %s",
	}
	gitDescribeMessages = messageTemplates{
		start:            "Looking up the latest tag in %s",
		success:          "Found the latest tag in %s",
		failure:          "No tag found in %s (exit code %d%s)",
		executionFailure: "Unable to look up tags in %s: %s",
	}
	gitLogMessages = messageTemplates{
		start:            "Reading merge history in %s",
		success:          "Read merge history in %s",
		failure:          "Failed to read merge history in %s (exit code %d%s)",
		executionFailure: "Unable to read merge history in %s: %s",
	}
)

type messageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	templates, subjects, recognized := formatter.describeGitCommand(command)
	if !recognized {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	return formatter.render(templates, subjects, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitCommand(command ShellCommand) (messageTemplates, []any, bool) {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitAbbrevRefFlagConstant) {
			return gitCurrentBranchMessages, []any{workingDirectory}, true
		}
		if containsArgument(arguments, gitVerifyFlagConstant) {
			return gitVerifyMessages, []any{formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:])), workingDirectory}, true
		}
	case gitStatusSubcommandNameConstant:
		return gitStatusMessages, []any{workingDirectory}, true
	case gitRemoteSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		switch formatter.argumentAtIndex(arguments, 1) {
		case gitRemoteShowSubcommandConstant:
			return gitRemoteShowMessages, []any{remoteName, workingDirectory}, true
		case gitRemoteAddSubcommandConstant:
			return gitRemoteAddMessages, []any{remoteName, formatter.ensureValue(formatter.argumentAtIndex(arguments, 3)), workingDirectory}, true
		case gitRemoteGetURLSubcommandConstant:
			return gitRemoteGetURLMessages, []any{remoteName, workingDirectory}, true
		}
	case gitAddSubcommandNameConstant:
		return gitAddMessages, []any{formatter.ensureValue(formatter.firstNonFlagArgument(arguments[1:])), workingDirectory}, true
	case gitStashSubcommandNameConstant:
		if containsArgument(arguments, gitStashPopSubcommandConstant) {
			return gitStashPopMessages, []any{workingDirectory}, true
		}
		return gitStashMessages, []any{workingDirectory}, true
	case gitFetchSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		if len(remoteName) == 0 {
			remoteName = gitFetchAllRemotesLabelConstant
		}
		if len(references) == 0 {
			return gitFetchWithoutReferencesMessages, []any{remoteName, workingDirectory}, true
		}
		return gitFetchMessages, []any{strings.Join(references, ", "), remoteName, workingDirectory}, true
	case gitCheckoutSubcommandNameConstant:
		newBranch, startPoint := formatter.extractNewBranch(arguments[1:])
		if len(newBranch) > 0 {
			return gitCheckoutNewBranchMessages, []any{newBranch, formatter.ensureValue(startPoint), workingDirectory}, true
		}
		return gitCheckoutMessages, []any{workingDirectory, formatter.ensureValue(formatter.firstNonFlagArgument(arguments[1:]))}, true
	case gitRebaseSubcommandNameConstant:
		return gitRebaseMessages, []any{formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:])), workingDirectory}, true
	case gitMergeSubcommandNameConstant:
		return gitMergeMessages, []any{formatter.ensureValue(formatter.firstNonFlagArgument(arguments[1:])), workingDirectory, findFlagValue(arguments, gitMessageFlagConstant)}, true
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitDeleteShortFlagConstant) || containsArgument(arguments, gitDeleteLongFlagConstant) {
			return gitBranchDeletionMessages, []any{formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:])), workingDirectory}, true
		}
	case gitPushSubcommandNameConstant:
		return gitPushMessages, []any{
			formatter.ensureValue(formatter.argumentAtIndex(arguments, 2)),
			formatter.ensureValue(formatter.argumentAtIndex(arguments, 1)),
			workingDirectory,
		}, true
	case gitDescribeSubcommandNameConstant:
		return gitDescribeMessages, []any{workingDirectory}, true
	case gitLogSubcommandNameConstant:
		return gitLogMessages, []any{workingDirectory}, true
	}

	return messageTemplates{}, nil, false
}

func (formatter CommandMessageFormatter) render(templates messageTemplates, subjects []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		failureArguments := append(append([]any{}, subjects...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, failureArguments...)
	case messageStageExecutionFailure:
		executionFailureArguments := append(append([]any{}, subjects...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, executionFailureArguments...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return strings.TrimSpace(arguments[index])
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

// nonFlagArguments skips flags together with the value of -m.
func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if trimmed == gitMessageFlagConstant {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(arguments []string) string {
	positional := formatter.nonFlagArguments(arguments)
	if len(positional) == 0 {
		return emptyStringConstant
	}
	return positional[0]
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	positional := formatter.nonFlagArguments(arguments)
	if len(positional) == 0 {
		return emptyStringConstant
	}
	return positional[len(positional)-1]
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	positional := formatter.nonFlagArguments(arguments)
	if len(positional) == 0 {
		return emptyStringConstant, nil
	}
	return positional[0], positional[1:]
}

// extractNewBranch handles both "checkout -b new start" and "checkout start -b new".
func (formatter CommandMessageFormatter) extractNewBranch(arguments []string) (string, string) {
	newBranch := findFlagValue(arguments, gitNewBranchFlagConstant)
	if len(newBranch) == 0 {
		return emptyStringConstant, emptyStringConstant
	}
	for _, candidate := range formatter.nonFlagArguments(arguments) {
		if candidate != newBranch {
			return newBranch, candidate
		}
	}
	return newBranch, emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
