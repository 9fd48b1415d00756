package sequence

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	gitProgramNameConstant        = "git"
	renderedLineSeparatorConstant = " "
)

// Step is a single git invocation expressed as an argument vector without the program name.
type Step struct {
	Arguments []string
}

// Git builds a Step from git arguments.
func Git(arguments ...string) Step {
	return Step{Arguments: append([]string{}, arguments...)}
}

// String renders the step as a shell-quoted command line, for display only.
func (step Step) String() string {
	if len(step.Arguments) == 0 {
		return gitProgramNameConstant
	}
	return gitProgramNameConstant + renderedLineSeparatorConstant + shellquote.Join(step.Arguments...)
}

// Equal reports whether two steps carry the same arguments.
func (step Step) Equal(other Step) bool {
	if len(step.Arguments) != len(other.Arguments) {
		return false
	}
	for index := range step.Arguments {
		if step.Arguments[index] != other.Arguments[index] {
			return false
		}
	}
	return true
}

// Plan is an ordered main command list paired with its recovery list.
// Insertion order is execution order for both.
type Plan struct {
	Commands         []Step
	RecoveryCommands []Step
}

// Append adds steps to the main command list.
func (plan *Plan) Append(steps ...Step) {
	plan.Commands = append(plan.Commands, steps...)
}

// AppendRecovery adds steps to the recovery list.
func (plan *Plan) AppendRecovery(steps ...Step) {
	plan.RecoveryCommands = append(plan.RecoveryCommands, steps...)
}

// RenderCommands returns the shell-quoted main command lines.
func (plan Plan) RenderCommands() []string {
	return renderSteps(plan.Commands)
}

// RenderRecoveryCommands returns the shell-quoted recovery command lines.
func (plan Plan) RenderRecoveryCommands() []string {
	return renderSteps(plan.RecoveryCommands)
}

// String renders the main commands one per line.
func (plan Plan) String() string {
	return strings.Join(plan.RenderCommands(), "\n")
}

func renderSteps(steps []Step) []string {
	renderedLines := make([]string, 0, len(steps))
	for _, step := range steps {
		renderedLines = append(renderedLines, step.String())
	}
	return renderedLines
}
