package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"isiprint/internal/ui/view"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show host connection, session and printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, e *env) error {
				view.RenderShell(e.out, e.ui.Shell.ViewModel())
				if e.signedIn() {
					e.printf("\n")
					view.RenderPrinters(e.out, e.ui.Printers.ViewModel())
				}
				return nil
			})
		},
	}
}

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the ISIPRINT account",
		Long: `Sign in to the ISIPRINT account.

Without --password the password is read from the first line of stdin.

Example:
  echo "secret" | isiprint login --email ana@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account e-mail (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	password := opts.Password
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := readLine(bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return WrapExitError(ExitCommandError, "read password", err)
		}
		password = line
	}

	return opts.run(cmd, func(ctx context.Context, e *env) error {
		if e.signedIn() {
			e.printf("Already signed in as %s\n", e.ui.Shell.ViewModel().Email)
			return nil
		}
		if err := e.ui.Shell.Login(ctx, opts.Email, password); err != nil {
			return WrapExitError(ExitFailure, "login failed", err)
		}
		e.printf("Signed in as %s\n", e.ui.Shell.ViewModel().Email)
		return nil
	})
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runSignedIn(cmd, func(ctx context.Context, e *env) error {
				if err := e.ui.Shell.Logout(ctx); err != nil {
					return e.report("logout failed", err)
				}
				e.printf("Signed out\n")
				return nil
			})
		},
	}
}

// NewAccountCommand creates the account command.
func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the signed-in account and its licences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runSignedIn(cmd, showAccount)
		},
	}
}

func showAccount(ctx context.Context, e *env) error {
	licenses, err := e.app.Session.Licenses(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "load licences", err)
	}
	view.RenderLicenses(e.out, e.ui.Shell.ViewModel().Email, licenses)
	return nil
}

// readLine returns one line without its terminator. A final line without a
// newline is returned as is.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
