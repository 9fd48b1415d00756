package history

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	changelogUseConstant                = "changelog [reference]"
	changelogShortDescriptionConstant   = "List merge commit subjects, newest first"
	changelogLongDescriptionConstant    = "changelog prints the subject of every merge commit reachable from HEAD, or from the given reference or range such as v1.2.0..HEAD."
	sinceLastTagFlagNameConstant        = "since-last-tag"
	sinceLastTagFlagUsageConstant       = "Limit the changelog to merges after the most recent tag"
	changelogArgumentsMessageConstant   = "changelog accepts at most one reference"
	sinceLastTagConflictMessageConstant = "changelog accepts either a reference or --since-last-tag"
	sinceLastTagRangeTemplateConstant   = "%s..HEAD"
	maximumReferenceArgumentsConstant   = 1
)

var (
	errChangelogArguments   = errors.New(changelogArgumentsMessageConstant)
	errSinceLastTagConflict = errors.New(sinceLastTagConflictMessageConstant)
)

// ChangelogCommandBuilder assembles the changelog command.
type ChangelogCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  sequence.GitExecutor
}

// Build constructs the changelog command.
func (builder *ChangelogCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          changelogUseConstant,
		Short:        changelogShortDescriptionConstant,
		Long:         changelogLongDescriptionConstant,
		SilenceUsage: true,
		RunE:         builder.run,
	}
	command.Flags().Bool(sinceLastTagFlagNameConstant, false, sinceLastTagFlagUsageConstant)
	return command, nil
}

func (builder *ChangelogCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > maximumReferenceArgumentsConstant {
		return errChangelogArguments
	}
	sinceLastTag, _ := command.Flags().GetBool(sinceLastTagFlagNameConstant)
	if sinceLastTag && len(arguments) > 0 {
		return errSinceLastTagConflict
	}

	helper, helperError := resolveHelper(command, builder.LoggerProvider, builder.HumanReadableLoggingProvider, builder.GitExecutor)
	if helperError != nil {
		return helperError
	}

	reference := ""
	if len(arguments) > 0 {
		reference = arguments[0]
	}
	if sinceLastTag {
		lastTag, tagFound := helper.LastTag(command.Context())
		if !tagFound {
			return ErrNoTagsFound
		}
		reference = fmt.Sprintf(sinceLastTagRangeTemplateConstant, lastTag)
	}

	changelog, found, queryError := helper.Changelog(command.Context(), reference)
	if queryError != nil {
		return queryError
	}
	if !found {
		return nil
	}
	fmt.Fprintf(command.OutOrStdout(), outputLineTemplateConstant, changelog)
	return nil
}
