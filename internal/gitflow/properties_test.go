package gitflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/temirov/ghflow/internal/gitflow"
	"github.com/temirov/ghflow/internal/sequence"
)

func countStep(steps []sequence.Step, expected sequence.Step) int {
	count := 0
	for _, step := range steps {
		if step.Equal(expected) {
			count++
		}
	}
	return count
}

func stashRestoreIsConsistent(steps []sequence.Step, workingTreeClean bool) bool {
	restoreCount := countStep(steps, gitflow.StashRestoreStep())
	if workingTreeClean {
		return restoreCount == 0
	}
	return restoreCount == 1 && steps[len(steps)-1].Equal(gitflow.StashRestoreStep())
}

func identifierGenerator() gopter.Gen {
	return gen.Identifier()
}

func mergeRequestGenerator() gopter.Gen {
	return gopter.CombineGens(
		identifierGenerator(),
		identifierGenerator(),
		gen.IntRange(1, 100000),
		gen.AnyString(),
	).Map(func(values []interface{}) gitflow.MergeRequest {
		return gitflow.MergeRequest{
			Remote:            values[0].(string),
			TargetBranch:      values[1].(string),
			PullRequestNumber: values[2].(int),
			Message:           values[3].(string),
		}
	})
}

func syncRequestGenerator() gopter.Gen {
	return gopter.CombineGens(
		identifierGenerator(),
		identifierGenerator(),
		identifierGenerator(),
	).Map(func(values []interface{}) gitflow.SyncRequest {
		return gitflow.SyncRequest{
			Username: values[0].(string),
			Branch:   values[1].(string),
			Remote:   values[2].(string),
		}
	})
}

func TestPlanProperties(testInstance *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("merge plans restore the stash last in both lists only when dirty", prop.ForAll(
		func(request gitflow.MergeRequest, previousBranch string, workingTreeClean bool) bool {
			plan := gitflow.BuildMergeRemotePlan(request, previousBranch, workingTreeClean)
			return stashRestoreIsConsistent(plan.Commands, workingTreeClean) &&
				stashRestoreIsConsistent(plan.RecoveryCommands, workingTreeClean)
		},
		mergeRequestGenerator(),
		identifierGenerator(),
		gen.Bool(),
	))

	properties.Property("sync plans restore the stash last in both lists only when dirty", prop.ForAll(
		func(request gitflow.SyncRequest, previousBranch string, workingTreeClean bool, localBranchExists bool) bool {
			plan := gitflow.BuildSyncBranchPlan(request, previousBranch, workingTreeClean, localBranchExists)
			return stashRestoreIsConsistent(plan.Commands, workingTreeClean) &&
				stashRestoreIsConsistent(plan.RecoveryCommands, workingTreeClean)
		},
		syncRequestGenerator(),
		identifierGenerator(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("merge plans end with the fixed cleanup ordering", prop.ForAll(
		func(request gitflow.MergeRequest, previousBranch string, workingTreeClean bool) bool {
			plan := gitflow.BuildMergeRemotePlan(request, previousBranch, workingTreeClean)
			commands := plan.Commands
			if !workingTreeClean {
				commands = commands[:len(commands)-1]
			}
			if len(commands) < 4 {
				return false
			}
			tail := commands[len(commands)-4:]
			expected := []sequence.Step{
				sequence.Git("branch", "-d", gitflow.PullRequestBranchName(request.PullRequestNumber)),
				sequence.Git("push", request.Remote, "HEAD:"+request.TargetBranch),
				sequence.Git("checkout", previousBranch),
				sequence.Git("branch", "-d", gitflow.TemporaryBranchName(request.TargetBranch)),
			}
			for index := range expected {
				if !tail[index].Equal(expected[index]) {
					return false
				}
			}
			return true
		},
		mergeRequestGenerator(),
		identifierGenerator(),
		gen.Bool(),
	))

	properties.Property("merge plans reference the pull request refspec and branches", prop.ForAll(
		func(request gitflow.MergeRequest, workingTreeClean bool) bool {
			plan := gitflow.BuildMergeRemotePlan(request, "master", workingTreeClean)
			pullRequestBranch := fmt.Sprintf("pr_%d", request.PullRequestNumber)
			fetch := sequence.Git("fetch", request.Remote, fmt.Sprintf("pull/%d/head:%s", request.PullRequestNumber, pullRequestBranch))
			mirror := sequence.Git("checkout", request.Remote+"/"+request.TargetBranch, "-b", "tmp_"+request.TargetBranch)
			return countStep(plan.Commands, fetch) == 1 && countStep(plan.Commands, mirror) == 1
		},
		mergeRequestGenerator(),
		gen.Bool(),
	))

	properties.Property("sync plans never mix the rebase and create paths", prop.ForAll(
		func(request gitflow.SyncRequest, workingTreeClean bool, localBranchExists bool) bool {
			plan := gitflow.BuildSyncBranchPlan(request, "master", workingTreeClean, localBranchExists)
			upstream := request.Username + "/" + request.Branch
			rebasePath := countStep(plan.Commands, sequence.Git("checkout", request.Branch)) +
				countStep(plan.Commands, sequence.Git("rebase", upstream))
			createPath := countStep(plan.Commands, sequence.Git("fetch", request.Username)) +
				countStep(plan.Commands, sequence.Git("checkout", "-b", request.Branch, upstream))
			if localBranchExists {
				return rebasePath == 2 && createPath == 0
			}
			return rebasePath == 0 && createPath == 2
		},
		syncRequestGenerator().SuchThat(func(request gitflow.SyncRequest) bool {
			return request.Username != request.Remote && request.Branch != "master"
		}),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(testInstance)
}

func TestEnsureRemoteConfigurationProperty(testInstance *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("an absent remote yields exactly one add and a present remote none", prop.ForAll(
		func(remoteName string, remotePresent bool) bool {
			remoteURL := "https://github.com/" + remoteName + "/ghflow.git"
			runner := &stubProcessRunner{responses: map[string]stubbedResponse{
				gitflow.RemoteAddStep(remoteName, remoteURL).String(): {succeeded: true},
			}}
			showLine := sequence.Git("remote", "show", remoteName).String()
			if remotePresent {
				runner.responses[showLine] = stubbedResponse{output: "* remote " + remoteName, succeeded: true}
			}
			helper, creationError := gitflow.NewHelper(gitflow.Dependencies{Runner: runner})
			if creationError != nil {
				return false
			}

			added, ensureError := helper.EnsureRemoteConfiguration(context.Background(), remoteName, remoteURL)
			if ensureError != nil {
				return false
			}
			addCount := countStep(runner.executed, gitflow.RemoteAddStep(remoteName, remoteURL))
			if remotePresent {
				return !added && addCount == 0
			}
			return added && addCount == 1
		},
		identifierGenerator(),
		gen.Bool(),
	))

	properties.TestingRun(testInstance)
}
