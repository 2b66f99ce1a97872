package cli

import (
	"context"

	"github.com/spf13/cobra"

	"isiprint/internal/service/language"
)

// NewLanguageCommand creates the language command.
func NewLanguageCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "language [code]",
		Short: "Show or set the interface language",
		Long: `Show or set the interface language.

Any language tag is accepted and matched to the closest supported language
(es, en, fr). Unknown tags select Spanish.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, e *env) error {
				code := e.app.Language.Current()
				if len(args) == 1 {
					code = e.app.Language.Set(args[0])
				}
				e.printf("Language: %s (supported: %v)\n", code, language.Supported)
				return nil
			})
		},
	}
}
