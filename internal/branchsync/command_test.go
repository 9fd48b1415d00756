package branchsync_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/branchsync"
	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/utils"
)

const (
	usernameArgumentConstant    = "alice"
	branchArgumentConstant      = "release"
	dryRunFlagConstant          = "--dry-run"
	assumeYesFlagConstant       = "--yes"
	remoteFlagConstant          = "--remote"
	repositoryPathConstant      = "/tmp/widgets"
	branchExistsCommandConstant = "rev-parse --verify release"
)

func TestSyncCommandScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		configuration    branchsync.CommandConfiguration
		setup            func(*scriptedGitExecutor)
		prompter         *stubPrompter
		expectedOutput   string
		expectedErrorIs  error
		expectedCommands []string
	}{
		{
			name:          "dry_run_existing_branch",
			arguments:     []string{usernameArgumentConstant, branchArgumentConstant, dryRunFlagConstant},
			configuration: branchsync.DefaultCommandConfiguration(),
			prompter:      &stubPrompter{},
			expectedOutput: "PLAN release from alice to origin\n" +
				"Commands:\n" +
				"  git add .\n" +
				"  git stash\n" +
				"  git checkout release\n" +
				"  git rebase alice/release\n" +
				"  git push origin release\n" +
				"  git fetch origin\n" +
				"  git checkout feature\n" +
				"Recovery commands (run only if a command fails):\n" +
				"  git checkout feature\n",
			expectedCommands: []string{currentBranchCommandConstant, statusCommandConstant, branchExistsCommandConstant},
		},
		{
			name:          "creates_missing_branch_on_dirty_tree",
			arguments:     []string{usernameArgumentConstant, branchArgumentConstant, remoteFlagConstant, "upstream"},
			configuration: branchsync.CommandConfiguration{Remote: "origin", AssumeYes: true},
			setup: func(executor *scriptedGitExecutor) {
				executor.outputs[statusCommandConstant] = dirtyStatusOutputConstant
				executor.failures[branchExistsCommandConstant] = true
			},
			prompter:       &stubPrompter{},
			expectedOutput: "SYNCED release from alice to upstream\n",
			expectedCommands: []string{
				currentBranchCommandConstant,
				statusCommandConstant,
				branchExistsCommandConstant,
				"add .",
				"stash",
				"fetch alice",
				"checkout -b release alice/release",
				"push upstream release",
				"fetch upstream",
				"checkout feature",
				"stash pop",
			},
		},
		{
			name:          "push_failure_restores_branch",
			arguments:     []string{usernameArgumentConstant, branchArgumentConstant, assumeYesFlagConstant},
			configuration: branchsync.DefaultCommandConfiguration(),
			setup: func(executor *scriptedGitExecutor) {
				executor.failures["push origin release"] = true
			},
			prompter: &stubPrompter{},
			expectedOutput: "FAILED release from alice to origin\n" +
				"  failed command: git push origin release\n" +
				"  output: CONFLICT (content): Merge conflict in README.md\n",
			expectedErrorIs: gitflow.ErrWorkflowFailed,
			expectedCommands: []string{
				currentBranchCommandConstant,
				statusCommandConstant,
				branchExistsCommandConstant,
				"add .",
				"stash",
				"checkout release",
				"rebase alice/release",
				"push origin release",
				"checkout feature",
			},
		},
		{
			name:             "confirmation_accepted",
			arguments:        []string{usernameArgumentConstant, branchArgumentConstant},
			configuration:    branchsync.DefaultCommandConfiguration(),
			prompter:         &stubPrompter{answer: true},
			expectedOutput:   "SYNCED release from alice to origin\n",
			expectedCommands: []string{currentBranchCommandConstant, statusCommandConstant, branchExistsCommandConstant, "add .", "stash", "checkout release", "rebase alice/release", "push origin release", "fetch origin", "checkout feature"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			if testCase.setup != nil {
				testCase.setup(executor)
			}

			configuration := testCase.configuration
			builder := branchsync.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() branchsync.CommandConfiguration { return configuration },
				GitExecutor:           executor,
				Prompter:              testCase.prompter,
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)

			executionContext := utils.NewCommandContextAccessor().WithRepositoryPath(context.Background(), repositoryPathConstant)
			executionError := command.ExecuteContext(executionContext)
			if testCase.expectedErrorIs != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedErrorIs)
			} else {
				require.NoError(testInstance, executionError)
			}

			require.Equal(testInstance, testCase.expectedOutput, output.String())
			require.Equal(testInstance, testCase.expectedCommands, executor.executedCommands)
		})
	}
}

func TestSyncCommandValidation(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedErrorIs error
	}{
		{name: "missing_branch", arguments: []string{usernameArgumentConstant}},
		{name: "blank_username", arguments: []string{" ", branchArgumentConstant}, expectedErrorIs: gitflow.ErrUsernameRequired},
		{name: "blank_remote", arguments: []string{usernameArgumentConstant, branchArgumentConstant, remoteFlagConstant, " "}, expectedErrorIs: gitflow.ErrRemoteRequired},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			builder := branchsync.CommandBuilder{GitExecutor: executor, Prompter: &stubPrompter{}}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)

			executionError := command.Execute()
			require.Error(testInstance, executionError)
			if testCase.expectedErrorIs != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedErrorIs)
			}
			require.Empty(testInstance, executor.executedCommands)
		})
	}
}
