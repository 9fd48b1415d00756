package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	statusLineTemplateConstant     = "%s %s\n"
	detailLineTemplateConstant     = "  %s\n"
	sectionLineTemplateConstant    = "%s\n"
	planCommandsHeadingConstant    = "Commands:"
	planRecoveryHeadingConstant    = "Recovery commands (run only if a command fails):"
	failedCommandLabelConstant     = "failed command:"
	commandOutputLabelConstant     = "output:"
	recoveryFailedLabelConstant    = "recovery command failed:"
	labelledDetailTemplateConstant = "%s %s"
)

// Status labels printed at the start of result lines.
const (
	StatusMerged  = "MERGED"
	StatusSynced  = "SYNCED"
	StatusFailed  = "FAILED"
	StatusAdded   = "ADDED"
	StatusPresent = "PRESENT"
	StatusPlanned = "PLAN"
	StatusSkipped = "SKIPPED"
)

// StatusPrinter writes workflow results, coloring the status label unless color is disabled.
type StatusPrinter struct {
	output   io.Writer
	success  *color.Color
	failure  *color.Color
	neutral  *color.Color
	emphasis *color.Color
}

// NewStatusPrinter builds a printer for output. Colors are only emitted when
// colorEnabled is true.
func NewStatusPrinter(output io.Writer, colorEnabled bool) *StatusPrinter {
	printer := &StatusPrinter{
		output:   output,
		success:  color.New(color.FgGreen, color.Bold),
		failure:  color.New(color.FgRed, color.Bold),
		neutral:  color.New(color.FgYellow),
		emphasis: color.New(color.Faint),
	}
	for _, palette := range []*color.Color{printer.success, printer.failure, printer.neutral, printer.emphasis} {
		if colorEnabled {
			palette.EnableColor()
		} else {
			palette.DisableColor()
		}
	}
	return printer
}

// Success prints a green status line.
func (printer *StatusPrinter) Success(status string, message string) {
	printer.printStatus(printer.success, status, message)
}

// Failure prints a red status line.
func (printer *StatusPrinter) Failure(status string, message string) {
	printer.printStatus(printer.failure, status, message)
}

// Notice prints a yellow status line.
func (printer *StatusPrinter) Notice(status string, message string) {
	printer.printStatus(printer.neutral, status, message)
}

// Detail prints an indented line beneath a status line.
func (printer *StatusPrinter) Detail(label string, value string) {
	if printer == nil || printer.output == nil {
		return
	}
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return
	}
	line := fmt.Sprintf(labelledDetailTemplateConstant, printer.emphasis.Sprint(label), trimmedValue)
	fmt.Fprintf(printer.output, detailLineTemplateConstant, line)
}

// FailedCommand prints the failing command and its captured output.
func (printer *StatusPrinter) FailedCommand(command string, output string, recoveryFailures []string) {
	printer.Detail(failedCommandLabelConstant, command)
	printer.Detail(commandOutputLabelConstant, output)
	for _, recoveryFailure := range recoveryFailures {
		printer.Detail(recoveryFailedLabelConstant, recoveryFailure)
	}
}

// Plan prints rendered commands followed by the recovery commands.
func (printer *StatusPrinter) Plan(commands []string, recoveryCommands []string) {
	if printer == nil || printer.output == nil {
		return
	}
	fmt.Fprintf(printer.output, sectionLineTemplateConstant, planCommandsHeadingConstant)
	for _, command := range commands {
		fmt.Fprintf(printer.output, detailLineTemplateConstant, command)
	}
	fmt.Fprintf(printer.output, sectionLineTemplateConstant, planRecoveryHeadingConstant)
	for _, recoveryCommand := range recoveryCommands {
		fmt.Fprintf(printer.output, detailLineTemplateConstant, recoveryCommand)
	}
}

func (printer *StatusPrinter) printStatus(palette *color.Color, status string, message string) {
	if printer == nil || printer.output == nil {
		return
	}
	fmt.Fprintf(printer.output, statusLineTemplateConstant, palette.Sprint(status), message)
}
