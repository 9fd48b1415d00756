package gitflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	processRunnerMissingMessageConstant     = "process runner not configured"
	currentBranchUnavailableMessageConstant = "unable to determine current branch"
	detachedHeadMessageConstant             = "repository is in detached HEAD state"
	workingTreeStatusMessageConstant        = "unable to determine working tree status"
	remoteAddFailedMessageConstant          = "unable to add remote"
	remoteNameRequiredMessageConstant       = "remote name is required"
	remoteURLRequiredMessageConstant        = "remote URL is required"
	gitQueryFailedMessageConstant           = "git query failed"
	gitQueryFailureTemplateConstant         = "%w: %w"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitAbbrevRefFlagConstant                = "--abbrev-ref"
	gitVerifyFlagConstant                   = "--verify"
	gitHeadReferenceConstant                = "HEAD"
	gitStatusSubcommandConstant             = "status"
	gitPorcelainFlagConstant                = "--porcelain"
	gitUntrackedFilesNoFlagConstant         = "--untracked-files=no"
	gitRemoteSubcommandConstant             = "remote"
	gitRemoteShowSubcommandConstant         = "show"
	gitRemoteAddSubcommandConstant          = "add"
	gitDescribeSubcommandConstant           = "describe"
	gitTagsFlagConstant                     = "--tags"
	gitAbbrevZeroFlagConstant               = "--abbrev=0"
	gitLogSubcommandConstant                = "log"
	gitMergesFlagConstant                   = "--merges"
	gitAncestryPathFlagConstant             = "--ancestry-path"
	gitOnelineFlagConstant                  = "--oneline"
	gitSubjectFormatFlagConstant            = "--format=%s"
	commitRangeSeparatorConstant            = ".."
	lineSeparatorConstant                   = "\n"
	remoteAddedLogMessageConstant           = "remote added"
	remotePresentLogMessageConstant         = "remote already configured"
	logFieldRemoteNameConstant              = "remote"
	logFieldRemoteURLConstant               = "url"
)

var (
	// ErrProcessRunnerNotConfigured indicates NewHelper received no runner.
	ErrProcessRunnerNotConfigured = errors.New(processRunnerMissingMessageConstant)
	// ErrCurrentBranchUnavailable indicates git could not report the checked out branch.
	ErrCurrentBranchUnavailable = errors.New(currentBranchUnavailableMessageConstant)
	// ErrDetachedHead indicates HEAD does not point at a branch to return to.
	ErrDetachedHead = errors.New(detachedHeadMessageConstant)
	// ErrWorkingTreeStatusUnavailable indicates git status failed.
	ErrWorkingTreeStatusUnavailable = errors.New(workingTreeStatusMessageConstant)
	// ErrRemoteAddFailed indicates git remote add exited unsuccessfully.
	ErrRemoteAddFailed = errors.New(remoteAddFailedMessageConstant)
	// ErrRemoteNameRequired indicates an empty remote name.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrRemoteURLRequired indicates an empty remote URL.
	ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)
	// ErrGitQueryFailed indicates a history query could not run or exited non-zero.
	ErrGitQueryFailed = errors.New(gitQueryFailedMessageConstant)
)

var pullRequestNumberPattern = regexp.MustCompile(`#(\d+)`)

// ProcessRunner runs single git steps and whole plans.
type ProcessRunner interface {
	Run(executionContext context.Context, step sequence.Step) (string, bool)
	Output(executionContext context.Context, step sequence.Step) (string, error)
	Lookup(executionContext context.Context, step sequence.Step) (string, bool)
	RunSequence(executionContext context.Context, plan sequence.Plan) sequence.Outcome
}

// Dependencies describes the collaborators required by Helper.
type Dependencies struct {
	Runner ProcessRunner
	Logger *zap.Logger
}

// Helper runs git workflows and queries against one repository.
type Helper struct {
	runner ProcessRunner
	logger *zap.Logger
}

// MergeCommit describes the merge located by PullRequestForCommit.
type MergeCommit struct {
	Line              string
	Hash              string
	Subject           string
	PullRequestNumber int
}

// NewHelper constructs a Helper.
func NewHelper(dependencies Dependencies) (*Helper, error) {
	if dependencies.Runner == nil {
		return nil, ErrProcessRunnerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Helper{runner: dependencies.Runner, logger: logger}, nil
}

// CurrentBranch returns the checked out branch name.
func (helper *Helper) CurrentBranch(executionContext context.Context) (string, error) {
	output, succeeded := helper.runner.Run(executionContext, sequence.Git(gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant))
	if !succeeded {
		return "", ErrCurrentBranchUnavailable
	}
	if len(output) == 0 || output == gitHeadReferenceConstant {
		return "", ErrDetachedHead
	}
	return output, nil
}

// WorkingDirectoryIsClean reports whether tracked files have no uncommitted changes.
// Untracked files are ignored.
func (helper *Helper) WorkingDirectoryIsClean(executionContext context.Context) (bool, error) {
	output, succeeded := helper.runner.Run(executionContext, sequence.Git(gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitUntrackedFilesNoFlagConstant))
	if !succeeded {
		return false, ErrWorkingTreeStatusUnavailable
	}
	return len(output) == 0, nil
}

// LocalBranchExists reports whether branchName resolves to a revision.
func (helper *Helper) LocalBranchExists(executionContext context.Context, branchName string) bool {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return false
	}
	_, succeeded := helper.runner.Lookup(executionContext, sequence.Git(gitRevParseSubcommandConstant, gitVerifyFlagConstant, trimmedBranch))
	return succeeded
}

// LastTag returns the most recent tag reachable from HEAD.
func (helper *Helper) LastTag(executionContext context.Context) (string, bool) {
	output, succeeded := helper.runner.Lookup(executionContext, sequence.Git(gitDescribeSubcommandConstant, gitTagsFlagConstant, gitAbbrevZeroFlagConstant))
	if !succeeded || len(output) == 0 {
		return "", false
	}
	return output, true
}

// PullRequestForCommit finds the first merge commit reached from commit on the
// ancestry path towards branch. PullRequestNumber is zero when the subject does
// not reference a pull request. Empty output reports no merge; a failing git
// command is returned as ErrGitQueryFailed.
func (helper *Helper) PullRequestForCommit(executionContext context.Context, commit string, branch string) (MergeCommit, bool, error) {
	trimmedCommit := strings.TrimSpace(commit)
	if len(trimmedCommit) == 0 {
		return MergeCommit{}, false, nil
	}
	trimmedBranch := strings.TrimSpace(branch)
	if len(trimmedBranch) == 0 {
		trimmedBranch = gitHeadReferenceConstant
	}

	output, queryError := helper.runner.Output(executionContext, sequence.Git(
		gitLogSubcommandConstant,
		gitMergesFlagConstant,
		gitAncestryPathFlagConstant,
		gitOnelineFlagConstant,
		trimmedCommit+commitRangeSeparatorConstant+trimmedBranch,
	))
	if queryError != nil {
		return MergeCommit{}, false, fmt.Errorf(gitQueryFailureTemplateConstant, ErrGitQueryFailed, queryError)
	}
	if len(output) == 0 {
		return MergeCommit{}, false, nil
	}

	lines := strings.Split(output, lineSeparatorConstant)
	return parseMergeCommit(strings.TrimSpace(lines[len(lines)-1])), true, nil
}

// Changelog returns merge commit subjects, newest first, optionally limited to reference.
// Empty output reports no merges; a failing git command is returned as ErrGitQueryFailed.
func (helper *Helper) Changelog(executionContext context.Context, reference string) (string, bool, error) {
	arguments := []string{gitLogSubcommandConstant, gitMergesFlagConstant, gitSubjectFormatFlagConstant}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) > 0 {
		arguments = append(arguments, trimmedReference)
	}

	output, queryError := helper.runner.Output(executionContext, sequence.Git(arguments...))
	if queryError != nil {
		return "", false, fmt.Errorf(gitQueryFailureTemplateConstant, ErrGitQueryFailed, queryError)
	}
	if len(output) == 0 {
		return "", false, nil
	}
	return output, true, nil
}

// EnsureRemoteConfiguration adds remoteName pointing at remoteURL unless git
// already reports it. The boolean is true when the remote was added.
func (helper *Helper) EnsureRemoteConfiguration(executionContext context.Context, remoteName string, remoteURL string) (bool, error) {
	trimmedName := strings.TrimSpace(remoteName)
	if len(trimmedName) == 0 {
		return false, ErrRemoteNameRequired
	}
	trimmedURL := strings.TrimSpace(remoteURL)
	if len(trimmedURL) == 0 {
		return false, ErrRemoteURLRequired
	}

	if helper.RemoteExists(executionContext, trimmedName) {
		helper.logger.Debug(remotePresentLogMessageConstant, zap.String(logFieldRemoteNameConstant, trimmedName))
		return false, nil
	}

	if _, succeeded := helper.runner.Run(executionContext, RemoteAddStep(trimmedName, trimmedURL)); !succeeded {
		return false, ErrRemoteAddFailed
	}

	helper.logger.Info(remoteAddedLogMessageConstant, zap.String(logFieldRemoteNameConstant, trimmedName), zap.String(logFieldRemoteURLConstant, trimmedURL))
	return true, nil
}

// RemoteExists reports whether git remote show produces output for remoteName.
func (helper *Helper) RemoteExists(executionContext context.Context, remoteName string) bool {
	output, _ := helper.runner.Lookup(executionContext, sequence.Git(gitRemoteSubcommandConstant, gitRemoteShowSubcommandConstant, remoteName))
	return len(output) > 0
}

// RemoteAddStep returns the step that registers remoteName.
func RemoteAddStep(remoteName string, remoteURL string) sequence.Step {
	return sequence.Git(gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL)
}

func parseMergeCommit(line string) MergeCommit {
	mergeCommit := MergeCommit{Line: line}
	hash, subject, found := strings.Cut(line, " ")
	if !found {
		mergeCommit.Hash = line
		return mergeCommit
	}

	mergeCommit.Hash = hash
	mergeCommit.Subject = strings.TrimSpace(subject)

	match := pullRequestNumberPattern.FindStringSubmatch(mergeCommit.Subject)
	if len(match) == 2 {
		if number, parseError := strconv.Atoi(match[1]); parseError == nil {
			mergeCommit.PullRequestNumber = number
		}
	}
	return mergeCommit
}
