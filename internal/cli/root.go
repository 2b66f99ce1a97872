// Package cli implements the isiprint command line.
package cli

import (
	"github.com/spf13/cobra"

	"isiprint/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	connect Connector
}

// NewRootCommand creates the root command for the isiprint CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(connectHost)
}

func newRootCommand(connect Connector) *cobra.Command {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:   "isiprint",
		Short: "ISIPRINT printing utility client",
		Long: `Client for the ISIPRINT printing utility.

Commands talk to the ISIPRINT host over its command bridge: sign in, pick a
printer and its paper format, find network printers, print a test page and
follow the print log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewAccountCommand(opts))
	cmd.AddCommand(NewPrintersCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewTestPrintCommand(opts))
	cmd.AddCommand(NewCutCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewLanguageCommand(opts))
	cmd.AddCommand(NewPortsCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}
