package remotes_test

import (
	"context"
	"strings"

	"github.com/temirov/ghflow/internal/execshell"
)

const failureExitCodeConstant = 1

type fakeGitExecutor struct {
	responses        map[string]execshell.ExecutionResult
	executedCommands []string
	workingDirectory string
}

func newFakeGitExecutor() *fakeGitExecutor {
	return &fakeGitExecutor{responses: map[string]execshell.ExecutionResult{}}
}

func (executor *fakeGitExecutor) register(commandLine string, standardOutput string) {
	executor.responses[commandLine] = execshell.ExecutionResult{StandardOutput: standardOutput}
}

func (executor *fakeGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	commandLine := strings.Join(details.Arguments, " ")
	executor.executedCommands = append(executor.executedCommands, commandLine)
	executor.workingDirectory = details.WorkingDirectory

	result, registered := executor.responses[commandLine]
	if !registered {
		failedResult := execshell.ExecutionResult{ExitCode: failureExitCodeConstant}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  failedResult,
		}
	}
	return result, nil
}
