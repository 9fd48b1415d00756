package ui

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

const (
	affirmativeShortAnswerConstant = "y"
	affirmativeLongAnswerConstant  = "yes"
	promptSuffixConstant           = " [y/N] "
)

// ConfirmationPrompter asks a yes/no question.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// NewConfirmationPrompter returns an interactive survey prompter when both
// streams are terminals and a line-reading prompter otherwise.
func NewConfirmationPrompter(input io.Reader, output io.Writer) ConfirmationPrompter {
	inputFile, inputIsFile := input.(*os.File)
	outputFile, outputIsFile := output.(*os.File)
	if inputIsFile && outputIsFile && isTerminal(inputFile) && isTerminal(outputFile) {
		return &SurveyConfirmationPrompter{input: inputFile, output: outputFile}
	}
	return NewIOConfirmationPrompter(input, output)
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// SurveyConfirmationPrompter renders an interactive confirm prompt.
type SurveyConfirmationPrompter struct {
	input  terminal.FileReader
	output terminal.FileWriter
}

// Confirm asks prompt and defaults to no. Ctrl-C counts as no.
func (prompter *SurveyConfirmationPrompter) Confirm(prompt string) (bool, error) {
	confirmed := false
	question := &survey.Confirm{Message: prompt, Default: false}
	askError := survey.AskOne(question, &confirmed, survey.WithStdio(prompter.input, prompter.output, prompter.output))
	if errors.Is(askError, terminal.InterruptErr) {
		return false, nil
	}
	if askError != nil {
		return false, askError
	}
	return confirmed, nil
}

// IOConfirmationPrompter reads confirmation responses line by line.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	if input == nil {
		input = strings.NewReader("")
	}
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and accepts y or yes in any case. End of input means no.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt+promptSuffixConstant); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return false, readError
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
		return true, nil
	default:
		return false, nil
	}
}
