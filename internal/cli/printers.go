package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"isiprint/internal/ui/view"
)

// NewPrintersCommand creates the printers command and its subcommands.
// Without a subcommand it lists the printers.
func NewPrintersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "printers",
		Short: "List printers and edit their print format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runSignedIn(cmd, listPrinters)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed printers; * marks the selected one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runSignedIn(cmd, listPrinters)
		},
	})
	cmd.AddCommand(newSelectCommand(rootOpts))
	cmd.AddCommand(newSettingsCommand(rootOpts))

	return cmd
}

func listPrinters(ctx context.Context, e *env) error {
	view.RenderPrinters(e.out, e.ui.Printers.ViewModel())
	return nil
}

func newSelectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <printer>",
		Short: "Select the printer used for test pages and cuts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return rootOpts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				if err := e.ui.Printers.Select(name); err != nil {
					return WrapExitError(ExitCommandError, "select printer", err)
				}
				view.RenderSettings(e.out, e.ui.Printers.ViewModel())
				return nil
			})
		},
	}
}

// SettingsOptions holds flags for the printers settings command.
type SettingsOptions struct {
	*RootOptions
	Printer string
	Preset  string
	Width   string
	Height  string
}

func newSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SettingsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the print format of a printer",
		Long: `Show or change the print format of a printer.

Width and height only apply to the custom preset. A value that is not a
number clears it.

Example:
  isiprint printers settings --printer EPSON --preset custom --width 58 --height 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				return applySettings(opts, cmd, e)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Printer, "printer", "", "printer to edit (default: the selected printer)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "thermal, carta, oficio or custom")
	cmd.Flags().StringVar(&opts.Width, "width", "", "custom width in mm")
	cmd.Flags().StringVar(&opts.Height, "height", "", "custom height in mm")

	return cmd
}

func applySettings(opts *SettingsOptions, cmd *cobra.Command, e *env) error {
	p := e.ui.Printers
	if opts.Printer != "" {
		if err := p.Select(opts.Printer); err != nil {
			return WrapExitError(ExitCommandError, "select printer", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := p.SetPreset(opts.Preset); err != nil {
			return WrapExitError(ExitCommandError, "set preset", err)
		}
	}
	if flags.Changed("width") {
		if err := p.SetWidth(opts.Width); err != nil {
			return WrapExitError(ExitCommandError, "set width", err)
		}
	}
	if flags.Changed("height") {
		if err := p.SetHeight(opts.Height); err != nil {
			return WrapExitError(ExitCommandError, "set height", err)
		}
	}

	view.RenderSettings(e.out, p.ViewModel())
	return nil
}

// PrinterActionOptions holds flags for test-print and cut.
type PrinterActionOptions struct {
	*RootOptions
	Printer string
}

// NewTestPrintCommand creates the test-print command.
func NewTestPrintCommand(rootOpts *RootOptions) *cobra.Command {
	return newPrinterActionCommand(rootOpts, "test-print", "Print a test page with the printer's settings",
		func(ctx context.Context, e *env) error {
			return e.report("test print failed", e.ui.Printers.TestPrint(ctx))
		})
}

// NewCutCommand creates the cut command.
func NewCutCommand(rootOpts *RootOptions) *cobra.Command {
	return newPrinterActionCommand(rootOpts, "cut", "Send a paper cut to the printer",
		func(ctx context.Context, e *env) error {
			return e.report("cut failed", e.ui.Printers.Cut(ctx))
		})
}

func newPrinterActionCommand(rootOpts *RootOptions, use, short string, action func(ctx context.Context, e *env) error) *cobra.Command {
	opts := &PrinterActionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				if opts.Printer != "" {
					if err := e.ui.Printers.Select(opts.Printer); err != nil {
						return WrapExitError(ExitCommandError, "select printer", err)
					}
				}
				return action(ctx, e)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Printer, "printer", "", "printer to use (default: the selected printer)")

	return cmd
}
