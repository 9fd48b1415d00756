package gitflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	remoteRequiredMessageConstant            = "remote is required"
	usernameRequiredMessageConstant          = "username is required"
	targetBranchRequiredMessageConstant      = "target branch is required"
	branchRequiredMessageConstant            = "branch is required"
	pullRequestNumberInvalidMessageConstant  = "pull request number must be positive"
	workflowFailedMessageConstant            = "workflow failed"
	defaultMergeMessageTemplateConstant      = "Merge pull request #%d"
	workflowFailureErrorTemplateConstant     = "%w: %s: %s"
	workflowStepErrorTemplateConstant        = "%w: %s"
	workflowPreparationErrorTemplateConstant = "%s: %w"
	mergeWorkflowNameConstant                = "merge"
	syncWorkflowNameConstant                 = "sync"
	workflowStartedLogMessageConstant        = "workflow started"
	workflowFinishedLogMessageConstant       = "workflow finished"
	logFieldWorkflowConstant                 = "workflow"
	logFieldPreviousBranchConstant           = "previous_branch"
	logFieldWorkingTreeCleanConstant         = "working_tree_clean"
	logFieldLocalBranchExistsConstant        = "local_branch_exists"
	logFieldSucceededConstant                = "succeeded"
)

var (
	// ErrRemoteRequired indicates a merge request without a remote.
	ErrRemoteRequired = errors.New(remoteRequiredMessageConstant)
	// ErrUsernameRequired indicates a sync request without a username remote.
	ErrUsernameRequired = errors.New(usernameRequiredMessageConstant)
	// ErrTargetBranchRequired indicates a merge request without a target branch.
	ErrTargetBranchRequired = errors.New(targetBranchRequiredMessageConstant)
	// ErrBranchRequired indicates a sync request without a branch.
	ErrBranchRequired = errors.New(branchRequiredMessageConstant)
	// ErrPullRequestNumberInvalid indicates a non-positive pull request number.
	ErrPullRequestNumberInvalid = errors.New(pullRequestNumberInvalidMessageConstant)
	// ErrWorkflowFailed indicates a main command failed and recovery ran.
	ErrWorkflowFailed = errors.New(workflowFailedMessageConstant)
)

// DefaultMergeMessage returns the merge commit message used when none is supplied.
func DefaultMergeMessage(pullRequestNumber int) string {
	return fmt.Sprintf(defaultMergeMessageTemplateConstant, pullRequestNumber)
}

// Normalize trims the request and fills in the default merge message.
func (request MergeRequest) Normalize() (MergeRequest, error) {
	normalized := MergeRequest{
		Remote:            strings.TrimSpace(request.Remote),
		TargetBranch:      strings.TrimSpace(request.TargetBranch),
		PullRequestNumber: request.PullRequestNumber,
		Message:           strings.TrimSpace(request.Message),
	}
	if len(normalized.Remote) == 0 {
		return MergeRequest{}, ErrRemoteRequired
	}
	if len(normalized.TargetBranch) == 0 {
		return MergeRequest{}, ErrTargetBranchRequired
	}
	if normalized.PullRequestNumber <= 0 {
		return MergeRequest{}, ErrPullRequestNumberInvalid
	}
	if len(normalized.Message) == 0 {
		normalized.Message = DefaultMergeMessage(normalized.PullRequestNumber)
	}
	return normalized, nil
}

// Normalize trims the request and validates required fields.
func (request SyncRequest) Normalize() (SyncRequest, error) {
	normalized := SyncRequest{
		Username: strings.TrimSpace(request.Username),
		Branch:   strings.TrimSpace(request.Branch),
		Remote:   strings.TrimSpace(request.Remote),
	}
	if len(normalized.Username) == 0 {
		return SyncRequest{}, ErrUsernameRequired
	}
	if len(normalized.Branch) == 0 {
		return SyncRequest{}, ErrBranchRequired
	}
	if len(normalized.Remote) == 0 {
		return SyncRequest{}, ErrRemoteRequired
	}
	return normalized, nil
}

// PlanMergeRemotePullRequest reads the repository state and returns the merge plan
// without running it.
func (helper *Helper) PlanMergeRemotePullRequest(executionContext context.Context, request MergeRequest) (sequence.Plan, error) {
	normalized, validationError := request.Normalize()
	if validationError != nil {
		return sequence.Plan{}, validationError
	}

	previousBranch, workingTreeClean, stateError := helper.readWorkingState(executionContext)
	if stateError != nil {
		return sequence.Plan{}, fmt.Errorf(workflowPreparationErrorTemplateConstant, mergeWorkflowNameConstant, stateError)
	}

	helper.logger.Debug(
		workflowStartedLogMessageConstant,
		zap.String(logFieldWorkflowConstant, mergeWorkflowNameConstant),
		zap.String(logFieldPreviousBranchConstant, previousBranch),
		zap.Bool(logFieldWorkingTreeCleanConstant, workingTreeClean),
	)
	return BuildMergeRemotePlan(normalized, previousBranch, workingTreeClean), nil
}

// PlanSyncBranch reads the repository state and returns the sync plan without running it.
func (helper *Helper) PlanSyncBranch(executionContext context.Context, request SyncRequest) (sequence.Plan, error) {
	normalized, validationError := request.Normalize()
	if validationError != nil {
		return sequence.Plan{}, validationError
	}

	previousBranch, workingTreeClean, stateError := helper.readWorkingState(executionContext)
	if stateError != nil {
		return sequence.Plan{}, fmt.Errorf(workflowPreparationErrorTemplateConstant, syncWorkflowNameConstant, stateError)
	}
	localBranchExists := helper.LocalBranchExists(executionContext, normalized.Branch)

	helper.logger.Debug(
		workflowStartedLogMessageConstant,
		zap.String(logFieldWorkflowConstant, syncWorkflowNameConstant),
		zap.String(logFieldPreviousBranchConstant, previousBranch),
		zap.Bool(logFieldWorkingTreeCleanConstant, workingTreeClean),
		zap.Bool(logFieldLocalBranchExistsConstant, localBranchExists),
	)
	return BuildSyncBranchPlan(normalized, previousBranch, workingTreeClean, localBranchExists), nil
}

// MergeRemotePullRequest fetches the pull request from the remote, rebases it onto
// the target branch, merges it with an explicit merge commit, pushes the target
// branch, and restores the original branch and stashed changes. A failed main
// command triggers the recovery list and an ErrWorkflowFailed error.
func (helper *Helper) MergeRemotePullRequest(executionContext context.Context, request MergeRequest) (sequence.Outcome, error) {
	plan, planError := helper.PlanMergeRemotePullRequest(executionContext, request)
	if planError != nil {
		return sequence.Outcome{}, planError
	}
	return helper.execute(executionContext, mergeWorkflowNameConstant, plan)
}

// SyncBranch brings Branch up to date with the username remote, pushes it to
// Remote, fetches Remote, and restores the original branch and stashed changes.
func (helper *Helper) SyncBranch(executionContext context.Context, request SyncRequest) (sequence.Outcome, error) {
	plan, planError := helper.PlanSyncBranch(executionContext, request)
	if planError != nil {
		return sequence.Outcome{}, planError
	}
	return helper.execute(executionContext, syncWorkflowNameConstant, plan)
}

// OutcomeError converts a failed outcome into an error wrapping ErrWorkflowFailed.
func OutcomeError(outcome sequence.Outcome) error {
	if outcome.Succeeded {
		return nil
	}
	if len(outcome.Output) == 0 {
		return fmt.Errorf(workflowStepErrorTemplateConstant, ErrWorkflowFailed, outcome.FailedStep.String())
	}
	return fmt.Errorf(workflowFailureErrorTemplateConstant, ErrWorkflowFailed, outcome.FailedStep.String(), outcome.Output)
}

func (helper *Helper) execute(executionContext context.Context, workflowName string, plan sequence.Plan) (sequence.Outcome, error) {
	outcome := helper.runner.RunSequence(executionContext, plan)
	helper.logger.Debug(
		workflowFinishedLogMessageConstant,
		zap.String(logFieldWorkflowConstant, workflowName),
		zap.Bool(logFieldSucceededConstant, outcome.Succeeded),
	)
	return outcome, OutcomeError(outcome)
}

func (helper *Helper) readWorkingState(executionContext context.Context) (string, bool, error) {
	previousBranch, branchError := helper.CurrentBranch(executionContext)
	if branchError != nil {
		return "", false, branchError
	}

	workingTreeClean, statusError := helper.WorkingDirectoryIsClean(executionContext)
	if statusError != nil {
		return "", false, statusError
	}
	return previousBranch, workingTreeClean, nil
}
