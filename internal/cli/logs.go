package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"isiprint/internal/ui/view"
)

// LogsOptions holds flags for the logs command.
type LogsOptions struct {
	*RootOptions
	Clear  bool
	Follow bool
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the print log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				switch {
				case opts.Clear:
					if err := e.ui.Logs.Clear(ctx); err != nil {
						return WrapExitError(ExitFailure, "clear logs", err)
					}
					e.printf("Print history cleared\n")
					return nil
				case opts.Follow:
					return followLogs(ctx, e)
				}

				if err := e.ui.Logs.Refresh(ctx); err != nil {
					return WrapExitError(ExitFailure, "load logs", err)
				}
				view.RenderLogs(e.out, e.ui.Logs.ViewModel())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "clear the print history")
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "keep polling until interrupted")
	cmd.MarkFlagsMutuallyExclusive("clear", "follow")

	return cmd
}

// followLogs redraws the log after every poll until ctx ends or the user
// interrupts.
func followLogs(ctx context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	redraw := make(chan struct{}, 1)
	e.ui.Logs.SetOnUpdate(func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	e.ui.Logs.Show(ctx)
	defer e.ui.Logs.Hide()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			e.printf("\n")
			view.RenderLogs(e.out, e.ui.Logs.ViewModel())
		}
	}
}
