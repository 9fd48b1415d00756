package workflow

import (
	"context"
	"fmt"

	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
)

const (
	mergeOperationNameConstant       = "merge"
	mergeDescriptionTemplateConstant = "pull request #%d into %s/%s"
	mergePromptTemplateConstant      = "Merge pull request #%d into %s/%s and push it?"
)

// MergeRunner plans and runs pull request merges.
type MergeRunner interface {
	PlanMergeRemotePullRequest(executionContext context.Context, request gitflow.MergeRequest) (sequence.Plan, error)
	MergeRemotePullRequest(executionContext context.Context, request gitflow.MergeRequest) (sequence.Outcome, error)
}

// MergeOperation merges a pull request fetched from a contributor remote.
type MergeOperation struct {
	Runner  MergeRunner
	Request gitflow.MergeRequest
}

// Name identifies the operation type.
func (operation *MergeOperation) Name() string {
	return mergeOperationNameConstant
}

// Description names the pull request and target branch.
func (operation *MergeOperation) Description() string {
	return fmt.Sprintf(mergeDescriptionTemplateConstant, operation.Request.PullRequestNumber, operation.Request.Remote, operation.Request.TargetBranch)
}

// Prompt asks whether to merge and push.
func (operation *MergeOperation) Prompt() string {
	return fmt.Sprintf(mergePromptTemplateConstant, operation.Request.PullRequestNumber, operation.Request.Remote, operation.Request.TargetBranch)
}

// SuccessStatus reports merged pull requests.
func (operation *MergeOperation) SuccessStatus() string {
	return ui.StatusMerged
}

// Plan returns the merge commands for the current repository state.
func (operation *MergeOperation) Plan(executionContext context.Context) (sequence.Plan, error) {
	return operation.Runner.PlanMergeRemotePullRequest(executionContext, operation.Request)
}

// Execute runs the merge.
func (operation *MergeOperation) Execute(executionContext context.Context) (sequence.Outcome, error) {
	return operation.Runner.MergeRemotePullRequest(executionContext, operation.Request)
}
