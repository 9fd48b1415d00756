package merge_test

import (
	"context"
	"strings"

	"github.com/temirov/ghflow/internal/execshell"
)

const (
	currentBranchCommandConstant = "rev-parse --abbrev-ref HEAD"
	statusCommandConstant        = "status --porcelain --untracked-files=no"
	previousBranchConstant       = "feature"
	dirtyStatusOutputConstant    = " M README.md\n"
	failureOutputConstant        = "CONFLICT (content): Merge conflict in README.md"
	failureExitCodeConstant      = 1
)

// scriptedGitExecutor succeeds with empty output unless a command is registered.
type scriptedGitExecutor struct {
	outputs          map[string]string
	failures         map[string]bool
	executedCommands []string
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{
		outputs:  map[string]string{currentBranchCommandConstant: previousBranchConstant + "\n"},
		failures: map[string]bool{},
	}
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	commandLine := strings.Join(details.Arguments, " ")
	executor.executedCommands = append(executor.executedCommands, commandLine)

	if executor.failures[commandLine] {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  execshell.ExecutionResult{StandardError: failureOutputConstant, ExitCode: failureExitCodeConstant},
		}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[commandLine]}, nil
}

type stubPrompter struct {
	answer  bool
	prompts []string
}

func (prompter *stubPrompter) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	return prompter.answer, nil
}
