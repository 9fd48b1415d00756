package workflow

import (
	"context"
	"fmt"

	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
	"github.com/temirov/ghflow/internal/ui"
)

const (
	syncOperationNameConstant       = "sync"
	syncDescriptionTemplateConstant = "%s from %s to %s"
	syncPromptTemplateConstant      = "Update %s from %s/%s and push it to %s?"
)

// SyncRunner plans and runs branch synchronization.
type SyncRunner interface {
	PlanSyncBranch(executionContext context.Context, request gitflow.SyncRequest) (sequence.Plan, error)
	SyncBranch(executionContext context.Context, request gitflow.SyncRequest) (sequence.Outcome, error)
}

// SyncOperation brings a branch up to date with a contributor remote and pushes it.
type SyncOperation struct {
	Runner  SyncRunner
	Request gitflow.SyncRequest
}

// Name identifies the operation type.
func (operation *SyncOperation) Name() string {
	return syncOperationNameConstant
}

// Description names the branch and both remotes.
func (operation *SyncOperation) Description() string {
	return fmt.Sprintf(syncDescriptionTemplateConstant, operation.Request.Branch, operation.Request.Username, operation.Request.Remote)
}

// Prompt asks whether to update and push the branch.
func (operation *SyncOperation) Prompt() string {
	return fmt.Sprintf(syncPromptTemplateConstant, operation.Request.Branch, operation.Request.Username, operation.Request.Branch, operation.Request.Remote)
}

// SuccessStatus reports synchronized branches.
func (operation *SyncOperation) SuccessStatus() string {
	return ui.StatusSynced
}

// Plan returns the sync commands for the current repository state.
func (operation *SyncOperation) Plan(executionContext context.Context) (sequence.Plan, error) {
	return operation.Runner.PlanSyncBranch(executionContext, operation.Request)
}

// Execute runs the sync.
func (operation *SyncOperation) Execute(executionContext context.Context) (sequence.Outcome, error) {
	return operation.Runner.SyncBranch(executionContext, operation.Request)
}
