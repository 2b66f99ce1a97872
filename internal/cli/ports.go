package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

// listSerialPorts is replaced in tests.
var listSerialPorts = serial.GetPortsList

// NewPortsCommand creates the ports command.
func NewPortsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List local serial ports (USB thermal printers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := listSerialPorts()
			if err != nil {
				return WrapExitError(ExitCommandError, "list serial ports", err)
			}

			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
