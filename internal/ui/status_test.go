package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghflow/internal/ui"
)

func TestStatusPrinterWithoutColor(testInstance *testing.T) {
	output := &bytes.Buffer{}
	printer := ui.NewStatusPrinter(output, false)

	printer.Failure(ui.StatusFailed, "merge of pull request #42 into alice/main")
	printer.FailedCommand("git rebase tmp_main", "CONFLICT (content)\n", []string{"git branch -d pr_42"})
	printer.Detail("ignored:", "   ")

	require.Equal(testInstance,
		"FAILED merge of pull request #42 into alice/main\n"+
			"  failed command: git rebase tmp_main\n"+
			"  output: CONFLICT (content)\n"+
			"  recovery command failed: git branch -d pr_42\n",
		output.String(),
	)
}

func TestStatusPrinterPlan(testInstance *testing.T) {
	output := &bytes.Buffer{}
	printer := ui.NewStatusPrinter(output, false)

	printer.Notice(ui.StatusPlanned, "sync release from alice to origin")
	printer.Plan([]string{"git add .", "git stash"}, []string{"git checkout master"})

	require.Equal(testInstance,
		"PLAN sync release from alice to origin\n"+
			"Commands:\n"+
			"  git add .\n"+
			"  git stash\n"+
			"Recovery commands (run only if a command fails):\n"+
			"  git checkout master\n",
		output.String(),
	)
}

func TestStatusPrinterWithColor(testInstance *testing.T) {
	output := &bytes.Buffer{}
	ui.NewStatusPrinter(output, true).Success(ui.StatusMerged, "pull request #42")

	require.Contains(testInstance, output.String(), "\x1b[")
	require.Contains(testInstance, output.String(), ui.StatusMerged)
	require.Contains(testInstance, output.String(), "pull request #42")
}
