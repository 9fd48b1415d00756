package gitflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	gitAddSubcommandConstant           = "add"
	gitAddAllPathConstant              = "."
	gitStashSubcommandConstant         = "stash"
	gitStashPopSubcommandConstant      = "pop"
	gitFetchSubcommandConstant         = "fetch"
	gitCheckoutSubcommandConstant      = "checkout"
	gitNewBranchFlagConstant           = "-b"
	gitRebaseSubcommandConstant        = "rebase"
	gitMergeSubcommandConstant         = "merge"
	gitNoFastForwardFlagConstant       = "--no-ff"
	gitMessageFlagConstant             = "-m"
	gitBranchSubcommandConstant        = "branch"
	gitDeleteBranchFlagConstant        = "-d"
	gitPushSubcommandConstant          = "push"
	pullRequestRefspecTemplateConstant = "pull/%d/head:%s"
	pullRequestBranchPrefixConstant    = "pr_"
	temporaryBranchPrefixConstant      = "tmp_"
	remoteBranchTemplateConstant       = "%s/%s"
	pushHeadRefspecTemplateConstant    = "HEAD:%s"
)

// MergeRequest describes a remote pull-request merge.
type MergeRequest struct {
	Remote            string
	TargetBranch      string
	PullRequestNumber int
	Message           string
}

// SyncRequest describes a branch sync from Username's remote to Remote.
type SyncRequest struct {
	Username string
	Branch   string
	Remote   string
}

// PullRequestBranchName returns the local branch the pull request head is fetched into.
func PullRequestBranchName(pullRequestNumber int) string {
	return pullRequestBranchPrefixConstant + strconv.Itoa(pullRequestNumber)
}

// TemporaryBranchName returns the local mirror branch created for targetBranch.
func TemporaryBranchName(targetBranch string) string {
	return temporaryBranchPrefixConstant + targetBranch
}

// BuildMergeRemotePlan lays out the merge workflow. workingDirectoryClean must be
// read once before anything mutates the repository; it decides whether both lists
// end with a stash restore.
func BuildMergeRemotePlan(request MergeRequest, previousBranch string, workingDirectoryClean bool) sequence.Plan {
	pullRequestBranch := PullRequestBranchName(request.PullRequestNumber)
	temporaryBranch := TemporaryBranchName(request.TargetBranch)

	plan := sequence.Plan{}
	plan.Append(
		sequence.Git(gitAddSubcommandConstant, gitAddAllPathConstant),
		sequence.Git(gitStashSubcommandConstant),
		sequence.Git(gitFetchSubcommandConstant, request.Remote, fmt.Sprintf(pullRequestRefspecTemplateConstant, request.PullRequestNumber, pullRequestBranch)),
		sequence.Git(gitCheckoutSubcommandConstant, fmt.Sprintf(remoteBranchTemplateConstant, request.Remote, request.TargetBranch), gitNewBranchFlagConstant, temporaryBranch),
		sequence.Git(gitCheckoutSubcommandConstant, pullRequestBranch),
		sequence.Git(gitRebaseSubcommandConstant, temporaryBranch),
		sequence.Git(gitCheckoutSubcommandConstant, temporaryBranch),
		sequence.Git(gitMergeSubcommandConstant, pullRequestBranch, gitNoFastForwardFlagConstant, gitMessageFlagConstant, strings.TrimSpace(request.Message)),
		sequence.Git(gitBranchSubcommandConstant, gitDeleteBranchFlagConstant, pullRequestBranch),
		sequence.Git(gitPushSubcommandConstant, request.Remote, fmt.Sprintf(pushHeadRefspecTemplateConstant, request.TargetBranch)),
		sequence.Git(gitCheckoutSubcommandConstant, previousBranch),
		sequence.Git(gitBranchSubcommandConstant, gitDeleteBranchFlagConstant, temporaryBranch),
	)

	plan.AppendRecovery(
		sequence.Git(gitBranchSubcommandConstant, gitDeleteBranchFlagConstant, pullRequestBranch),
		sequence.Git(gitCheckoutSubcommandConstant, previousBranch),
		sequence.Git(gitBranchSubcommandConstant, gitDeleteBranchFlagConstant, temporaryBranch),
	)

	appendStashRestore(&plan, workingDirectoryClean)
	return plan
}

// BuildSyncBranchPlan lays out the sync workflow. An existing local branch is
// rebased onto the username remote; a missing one is created from it.
func BuildSyncBranchPlan(request SyncRequest, previousBranch string, workingDirectoryClean bool, localBranchExists bool) sequence.Plan {
	upstreamBranch := fmt.Sprintf(remoteBranchTemplateConstant, request.Username, request.Branch)

	plan := sequence.Plan{}
	plan.Append(
		sequence.Git(gitAddSubcommandConstant, gitAddAllPathConstant),
		sequence.Git(gitStashSubcommandConstant),
	)

	if localBranchExists {
		plan.Append(
			sequence.Git(gitCheckoutSubcommandConstant, request.Branch),
			sequence.Git(gitRebaseSubcommandConstant, upstreamBranch),
		)
	} else {
		plan.Append(
			sequence.Git(gitFetchSubcommandConstant, request.Username),
			sequence.Git(gitCheckoutSubcommandConstant, gitNewBranchFlagConstant, request.Branch, upstreamBranch),
		)
	}

	plan.Append(
		sequence.Git(gitPushSubcommandConstant, request.Remote, request.Branch),
		sequence.Git(gitFetchSubcommandConstant, request.Remote),
		sequence.Git(gitCheckoutSubcommandConstant, previousBranch),
	)

	plan.AppendRecovery(sequence.Git(gitCheckoutSubcommandConstant, previousBranch))

	appendStashRestore(&plan, workingDirectoryClean)
	return plan
}

// StashRestoreStep is the step appended to both lists when the tree was dirty.
func StashRestoreStep() sequence.Step {
	return sequence.Git(gitStashSubcommandConstant, gitStashPopSubcommandConstant)
}

func appendStashRestore(plan *sequence.Plan, workingDirectoryClean bool) {
	if workingDirectoryClean {
		return
	}
	plan.Append(StashRestoreStep())
	plan.AppendRecovery(StashRestoreStep())
}
