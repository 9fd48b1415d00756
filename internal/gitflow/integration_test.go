package gitflow_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/execshell"
	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
)

const (
	integrationGitExecutableConstant        = "git"
	integrationCommandTimeoutConstant       = 20 * time.Second
	integrationUserNameConstant             = "Integration Tester"
	integrationUserEmailConstant            = "tester@example.com"
	integrationUsernameConstant             = "alice"
	integrationOriginRemoteConstant         = "origin"
	integrationTargetBranchConstant         = "master"
	integrationWorkBranchConstant           = "work"
	integrationTopicBranchConstant          = "topic"
	integrationPullRequestNumberConstant    = 7
	integrationMissingPullRequestConstant   = 99
	integrationReadmeFileNameConstant       = "README.md"
	integrationFeatureFileNameConstant      = "feature.txt"
	integrationReadmeContentsConstant       = "ghflow\n"
	integrationDirtyReadmeContentsConstant  = "ghflow\nuncommitted notes\n"
	integrationFeatureContentsConstant      = "feature\n"
	integrationPullRequestRefConstant       = "refs/pull/7/head"
	integrationExpectedMergeSubjectConstant = "Merge pull request #7"
)

type integrationRepositories struct {
	userRemotePath   string
	originRemotePath string
	workspacePath    string
}

func TestMergeRemotePullRequestAgainstRealRepositories(testInstance *testing.T) {
	repositories := prepareIntegrationRepositories(testInstance)
	helper := newIntegrationHelper(testInstance, repositories.workspacePath)
	writeIntegrationFile(testInstance, filepath.Join(repositories.workspacePath, integrationReadmeFileNameConstant), integrationDirtyReadmeContentsConstant)

	outcome, mergeError := helper.MergeRemotePullRequest(context.Background(), gitflow.MergeRequest{
		Remote:            integrationUsernameConstant,
		TargetBranch:      integrationTargetBranchConstant,
		PullRequestNumber: integrationPullRequestNumberConstant,
	})
	require.NoError(testInstance, mergeError)
	require.True(testInstance, outcome.Succeeded)

	mergeSubject := runIntegrationGit(testInstance, repositories.userRemotePath, "log", "-1", "--format=%s", integrationTargetBranchConstant)
	require.Equal(testInstance, integrationExpectedMergeSubjectConstant, strings.TrimSpace(mergeSubject))

	mergedFiles := runIntegrationGit(testInstance, repositories.userRemotePath, "ls-tree", "--name-only", integrationTargetBranchConstant)
	require.Contains(testInstance, mergedFiles, integrationFeatureFileNameConstant)

	assertWorkspaceRestored(testInstance, repositories.workspacePath)
	localBranches := runIntegrationGit(testInstance, repositories.workspacePath, "branch", "--list")
	require.NotContains(testInstance, localBranches, gitflow.PullRequestBranchName(integrationPullRequestNumberConstant))
	require.NotContains(testInstance, localBranches, gitflow.TemporaryBranchName(integrationTargetBranchConstant))
}

func TestMergeRemotePullRequestRecoversFromFailedFetch(testInstance *testing.T) {
	repositories := prepareIntegrationRepositories(testInstance)
	helper := newIntegrationHelper(testInstance, repositories.workspacePath)
	writeIntegrationFile(testInstance, filepath.Join(repositories.workspacePath, integrationReadmeFileNameConstant), integrationDirtyReadmeContentsConstant)
	targetBefore := runIntegrationGit(testInstance, repositories.userRemotePath, "rev-parse", integrationTargetBranchConstant)

	outcome, mergeError := helper.MergeRemotePullRequest(context.Background(), gitflow.MergeRequest{
		Remote:            integrationUsernameConstant,
		TargetBranch:      integrationTargetBranchConstant,
		PullRequestNumber: integrationMissingPullRequestConstant,
	})
	require.ErrorIs(testInstance, mergeError, gitflow.ErrWorkflowFailed)
	require.False(testInstance, outcome.Succeeded)
	require.Equal(testInstance, 2, outcome.FailedIndex)
	require.NotEmpty(testInstance, outcome.Output)

	require.Equal(testInstance, targetBefore, runIntegrationGit(testInstance, repositories.userRemotePath, "rev-parse", integrationTargetBranchConstant))
	assertWorkspaceRestored(testInstance, repositories.workspacePath)
}

func TestSyncBranchAgainstRealRepositories(testInstance *testing.T) {
	repositories := prepareIntegrationRepositories(testInstance)
	helper := newIntegrationHelper(testInstance, repositories.workspacePath)
	writeIntegrationFile(testInstance, filepath.Join(repositories.workspacePath, integrationReadmeFileNameConstant), integrationDirtyReadmeContentsConstant)

	outcome, syncError := helper.SyncBranch(context.Background(), gitflow.SyncRequest{
		Username: integrationUsernameConstant,
		Branch:   integrationTopicBranchConstant,
		Remote:   integrationOriginRemoteConstant,
	})
	require.NoError(testInstance, syncError)
	require.True(testInstance, outcome.Succeeded)

	userTopic := runIntegrationGit(testInstance, repositories.userRemotePath, "rev-parse", integrationTopicBranchConstant)
	originTopic := runIntegrationGit(testInstance, repositories.originRemotePath, "rev-parse", integrationTopicBranchConstant)
	require.Equal(testInstance, userTopic, originTopic)

	assertWorkspaceRestored(testInstance, repositories.workspacePath)
}

func TestHistoryQueriesAgainstRealRepository(testInstance *testing.T) {
	repositories := prepareIntegrationRepositories(testInstance)
	helper := newIntegrationHelper(testInstance, repositories.workspacePath)

	_, tagFound := helper.LastTag(context.Background())
	require.False(testInstance, tagFound)

	runIntegrationGit(testInstance, repositories.workspacePath, "tag", "v1.0.0")
	lastTag, tagFound := helper.LastTag(context.Background())
	require.True(testInstance, tagFound)
	require.Equal(testInstance, "v1.0.0", lastTag)

	require.True(testInstance, helper.RemoteExists(context.Background(), integrationUsernameConstant))
	require.False(testInstance, helper.RemoteExists(context.Background(), "bob"))
	require.True(testInstance, helper.LocalBranchExists(context.Background(), integrationWorkBranchConstant))
	require.False(testInstance, helper.LocalBranchExists(context.Background(), integrationTopicBranchConstant))

	emptyLog, mergesFound, queryError := helper.Changelog(context.Background(), "v1.0.0..HEAD")
	require.NoError(testInstance, queryError)
	require.False(testInstance, mergesFound)
	require.Empty(testInstance, emptyLog)

	_, _, queryError = helper.Changelog(context.Background(), "v9.9.9..HEAD")
	require.ErrorIs(testInstance, queryError, gitflow.ErrGitQueryFailed)
}

func prepareIntegrationRepositories(testInstance *testing.T) integrationRepositories {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(integrationGitExecutableConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	temporaryRoot := testInstance.TempDir()
	repositories := integrationRepositories{
		userRemotePath:   filepath.Join(temporaryRoot, "alice.git"),
		originRemotePath: filepath.Join(temporaryRoot, "origin.git"),
		workspacePath:    filepath.Join(temporaryRoot, "workspace"),
	}
	seedPath := filepath.Join(temporaryRoot, "seed")

	runIntegrationGit(testInstance, temporaryRoot, "init", "--bare", repositories.userRemotePath)
	runIntegrationGit(testInstance, temporaryRoot, "init", "--bare", repositories.originRemotePath)

	runIntegrationGit(testInstance, temporaryRoot, "init", seedPath)
	configureIntegrationIdentity(testInstance, seedPath)
	writeIntegrationFile(testInstance, filepath.Join(seedPath, integrationReadmeFileNameConstant), integrationReadmeContentsConstant)
	runIntegrationGit(testInstance, seedPath, "add", integrationReadmeFileNameConstant)
	runIntegrationGit(testInstance, seedPath, "commit", "-m", "Initial commit")
	runIntegrationGit(testInstance, seedPath, "branch", "-M", integrationTargetBranchConstant)
	runIntegrationGit(testInstance, seedPath, "push", repositories.userRemotePath, integrationTargetBranchConstant)
	runIntegrationGit(testInstance, seedPath, "push", repositories.originRemotePath, integrationTargetBranchConstant)

	runIntegrationGit(testInstance, seedPath, "checkout", "-b", integrationTopicBranchConstant)
	writeIntegrationFile(testInstance, filepath.Join(seedPath, integrationFeatureFileNameConstant), integrationFeatureContentsConstant)
	runIntegrationGit(testInstance, seedPath, "add", integrationFeatureFileNameConstant)
	runIntegrationGit(testInstance, seedPath, "commit", "-m", "Add feature")
	runIntegrationGit(testInstance, seedPath, "push", repositories.userRemotePath, integrationTopicBranchConstant)
	runIntegrationGit(testInstance, seedPath, "push", repositories.userRemotePath, integrationTopicBranchConstant+":"+integrationPullRequestRefConstant)

	runIntegrationGit(testInstance, temporaryRoot, "init", repositories.workspacePath)
	configureIntegrationIdentity(testInstance, repositories.workspacePath)
	runIntegrationGit(testInstance, repositories.workspacePath, "remote", "add", integrationOriginRemoteConstant, repositories.originRemotePath)
	runIntegrationGit(testInstance, repositories.workspacePath, "remote", "add", integrationUsernameConstant, repositories.userRemotePath)
	runIntegrationGit(testInstance, repositories.workspacePath, "fetch", integrationUsernameConstant)
	runIntegrationGit(testInstance, repositories.workspacePath, "checkout", "-b", integrationWorkBranchConstant, integrationUsernameConstant+"/"+integrationTargetBranchConstant)

	return repositories
}

func newIntegrationHelper(testInstance *testing.T, workspacePath string) *gitflow.Helper {
	testInstance.Helper()
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)

	runner, runnerError := sequence.NewRunner(shellExecutor, workspacePath, zap.NewNop())
	require.NoError(testInstance, runnerError)

	helper, helperError := gitflow.NewHelper(gitflow.Dependencies{Runner: runner, Logger: zap.NewNop()})
	require.NoError(testInstance, helperError)
	return helper
}

func assertWorkspaceRestored(testInstance *testing.T, workspacePath string) {
	testInstance.Helper()
	currentBranch := runIntegrationGit(testInstance, workspacePath, "rev-parse", "--abbrev-ref", "HEAD")
	require.Equal(testInstance, integrationWorkBranchConstant, strings.TrimSpace(currentBranch))

	readmeContents, readError := os.ReadFile(filepath.Join(workspacePath, integrationReadmeFileNameConstant))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, integrationDirtyReadmeContentsConstant, string(readmeContents))

	stashList := runIntegrationGit(testInstance, workspacePath, "stash", "list")
	require.Empty(testInstance, strings.TrimSpace(stashList))
}

func configureIntegrationIdentity(testInstance *testing.T, repositoryPath string) {
	runIntegrationGit(testInstance, repositoryPath, "config", "user.name", integrationUserNameConstant)
	runIntegrationGit(testInstance, repositoryPath, "config", "user.email", integrationUserEmailConstant)
	runIntegrationGit(testInstance, repositoryPath, "config", "commit.gpgsign", "false")
}

func writeIntegrationFile(testInstance *testing.T, filePath string, contents string) {
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testInstance, os.WriteFile(filePath, []byte(contents), 0o644))
}

func runIntegrationGit(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeoutConstant)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, integrationGitExecutableConstant, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	outputBytes, commandError := command.Output()
	var exitError *exec.ExitError
	if errors.As(commandError, &exitError) {
		require.NoError(testInstance, commandError, string(exitError.Stderr))
	}
	require.NoError(testInstance, commandError)
	return string(outputBytes)
}
