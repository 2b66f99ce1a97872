package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"isiprint/internal/ui/view"
)

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the local network for printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runSignedIn(cmd, scanNetwork)
		},
	}
}

func scanNetwork(ctx context.Context, e *env) error {
	err := e.ui.Printers.Scan(ctx)
	if err == nil {
		view.RenderCandidates(e.out, e.ui.Printers.ViewModel())
	}
	return e.report("scan failed", err)
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <index>",
		Short: "Scan the network and install the printer at index",
		Long: `Scan the network and install the printer at index.

The index refers to the table printed by 'isiprint scan'.

Example:
  isiprint add 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid index", err)
			}
			return rootOpts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				if err := e.ui.Printers.Scan(ctx); err != nil {
					return e.report("scan failed", err)
				}
				if err := e.ui.Printers.Adopt(ctx, index); err != nil {
					return e.report("add printer failed", err)
				}
				return e.report("", nil)
			})
		},
	}
}
