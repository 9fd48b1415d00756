package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ghflow/internal/sequence"
)

const (
	lastTagUseConstant              = "last-tag"
	lastTagShortDescriptionConstant = "Print the most recent tag reachable from HEAD"
)

// LastTagCommandBuilder assembles the last-tag command.
type LastTagCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  sequence.GitExecutor
}

// Build constructs the last-tag command.
func (builder *LastTagCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:          lastTagUseConstant,
		Short:        lastTagShortDescriptionConstant,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         builder.run,
	}, nil
}

func (builder *LastTagCommandBuilder) run(command *cobra.Command, _ []string) error {
	helper, helperError := resolveHelper(command, builder.LoggerProvider, builder.HumanReadableLoggingProvider, builder.GitExecutor)
	if helperError != nil {
		return helperError
	}

	lastTag, found := helper.LastTag(command.Context())
	if !found {
		return ErrNoTagsFound
	}
	fmt.Fprintf(command.OutOrStdout(), outputLineTemplateConstant, lastTag)
	return nil
}
