package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"isiprint/internal/app"
	"isiprint/internal/config"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/service/session"
	"isiprint/internal/ui"
	"isiprint/internal/ui/view"
)

// Connector builds the application for one command run. Diagnostics go to
// stderr.
type Connector func(ctx context.Context, opts *RootOptions, stderr io.Writer) (*app.App, error)

func connectHost(ctx context.Context, opts *RootOptions, stderr io.Writer) (*app.App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := logger.LevelWarn
	if opts.Verbose {
		level = logger.LevelDebug
	}
	return app.New(ctx, cfg, logger.NewWriterLogger(stderr, "isiprint: ", level))
}

// env is a started client bound to a command's output.
type env struct {
	app *app.App
	ui  *ui.Controllers
	out io.Writer
}

// open connects, verifies the stored session and returns once the session
// state is known.
func (o *RootOptions) open(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	a, err := o.connect(ctx, o, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "start client", err)
	}

	c := ui.NewControllers(a)
	if err := c.Shell.Initialize(ctx); err != nil {
		a.Close()
		return nil, WrapExitError(ExitCommandError, "verify session", err)
	}
	return &env{app: a, ui: c, out: cmd.OutOrStdout()}, nil
}

// run opens the client, runs fn and closes the client again.
func (o *RootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(cmd.Context(), e)
}

// runSignedIn is run for commands that need an active session.
func (o *RootOptions) runSignedIn(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	return o.run(cmd, func(ctx context.Context, e *env) error {
		if !e.signedIn() {
			return errSignedOut()
		}
		return fn(ctx, e)
	})
}

func (e *env) signedIn() bool {
	return e.app.Session.Snapshot().State == session.Authenticated
}

// report prints the current status message and turns err into an exit
// error.
func (e *env) report(action string, err error) error {
	view.RenderMessage(e.out, e.app.Notices.Current())
	if err != nil {
		return WrapExitError(ExitFailure, action, err)
	}
	return nil
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) close() {
	if err := e.app.Close(); err != nil {
		e.app.Logger.Warn("[APP] Close: %v", err)
	}
}
