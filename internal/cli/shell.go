package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"isiprint/internal/service/navigation"
	"isiprint/internal/ui/view"
	"isiprint/internal/ui/viewmodel"
)

const shellHelp = `Commands:
  status                      host, session and tabs
  login <email> <password>    sign in
  logout                      sign out
  tab <account|printers|logs> switch tab
  show                        show the current tab
  refresh                     reload the printer list
  select <printer>            select a printer
  preset <name>               thermal, carta, oficio or custom
  width <mm> | height <mm>    custom size of the selected printer
  scan                        scan the network for printers
  add <index>                 install a printer from the last scan
  print                       print a test page
  cut                         send a paper cut
  clear                       clear the print history
  lang [code]                 show or set the language
  help                        this text
  quit                        leave the shell`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with tabs, host navigation and live logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, e *env) error {
				return newShell(e, cmd.InOrStdin()).loop(ctx)
			})
		},
	}
}

type shell struct {
	env     *env
	in      *bufio.Reader
	changed chan struct{}

	// owned by the watch goroutine
	logsShown bool
}

func newShell(e *env, in io.Reader) *shell {
	return &shell{
		env:     e,
		in:      bufio.NewReader(in),
		changed: make(chan struct{}, 1),
	}
}

func (s *shell) loop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	defer func() {
		cancel()
		<-watchDone
		s.env.ui.Logs.Hide()
	}()

	s.env.ui.SetOnUpdate(s.signal)
	go s.watch(ctx, watchDone)

	fmt.Fprintln(s.env.out, "ISIPRINT shell. Type 'help' for commands.")
	view.RenderShell(s.env.out, s.env.ui.Shell.ViewModel())

	lines := s.readLines(ctx)
	for {
		fmt.Fprintf(s.env.out, "isiprint[%s]> ", s.prompt())

		var in inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.env.out)
			return nil
		case in = <-lines:
		}
		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				fmt.Fprintln(s.env.out)
				return nil
			}
			return WrapExitError(ExitCommandError, "read input", in.err)
		}

		fields := strings.Fields(in.text)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.exec(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(s.env.out, "Error: %v\n", err)
		}
		s.signal()
	}
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds stdin to the loop so a cancelled context ends the shell
// without waiting for the next line.
func (s *shell) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		for {
			text, err := readLine(s.in)
			select {
			case lines <- inputLine{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (s *shell) prompt() string {
	vm := s.env.ui.Shell.ViewModel()
	switch vm.Phase {
	case viewmodel.PhaseLoading:
		return "verifying"
	case viewmodel.PhaseLogin:
		return "signed out"
	default:
		return vm.ActiveTab
	}
}

// signal wakes the watch goroutine; it never blocks.
func (s *shell) signal() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// watch keeps log polling in step with the active tab, which the host menu
// may switch at any time.
func (s *shell) watch(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changed:
			s.syncLogs(ctx)
		}
	}
}

func (s *shell) syncLogs(ctx context.Context) {
	vm := s.env.ui.Shell.ViewModel()
	show := vm.Phase == viewmodel.PhaseMain && vm.ActiveTab == string(navigation.TabLogs)
	if show == s.logsShown {
		return
	}
	s.logsShown = show
	if show {
		s.env.ui.Logs.Show(ctx)
	} else {
		s.env.ui.Logs.Hide()
	}
}

func (s *shell) exec(ctx context.Context, name string, args []string) error {
	e := s.env
	switch name {
	case "help":
		fmt.Fprintln(e.out, shellHelp)
		return nil
	case "status":
		view.RenderShell(e.out, e.ui.Shell.ViewModel())
		return nil
	case "lang":
		code := e.app.Language.Current()
		if len(args) > 0 {
			code = e.app.Language.Set(args[0])
		}
		fmt.Fprintf(e.out, "Language: %s\n", code)
		return nil
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <email> <password>")
		}
		if err := e.ui.Shell.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		view.RenderShell(e.out, e.ui.Shell.ViewModel())
		return nil
	}

	if !e.signedIn() {
		return errSignedOut()
	}

	switch name {
	case "logout":
		err := e.ui.Shell.Logout(ctx)
		view.RenderShell(e.out, e.ui.Shell.ViewModel())
		return err
	case "tab":
		if len(args) != 1 {
			return errors.New("usage: tab <account|printers|logs>")
		}
		if err := e.ui.Shell.Navigate(args[0]); err != nil {
			return err
		}
		return s.show(ctx)
	case "show":
		return s.show(ctx)
	case "refresh":
		err := e.ui.Printers.Refresh(ctx)
		view.RenderPrinters(e.out, e.ui.Printers.ViewModel())
		return err
	case "select":
		if len(args) == 0 {
			return errors.New("usage: select <printer>")
		}
		if err := e.ui.Printers.Select(strings.Join(args, " ")); err != nil {
			return err
		}
		view.RenderSettings(e.out, e.ui.Printers.ViewModel())
		return nil
	case "preset", "width", "height":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <value>", name)
		}
		if err := s.editSettings(name, args[0]); err != nil {
			return err
		}
		view.RenderSettings(e.out, e.ui.Printers.ViewModel())
		return nil
	case "scan":
		return s.action(func() error {
			err := e.ui.Printers.Scan(ctx)
			if err == nil {
				view.RenderCandidates(e.out, e.ui.Printers.ViewModel())
			}
			return err
		})
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <index>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		return s.action(func() error { return e.ui.Printers.Adopt(ctx, index) })
	case "print":
		return s.action(func() error { return e.ui.Printers.TestPrint(ctx) })
	case "cut":
		return s.action(func() error { return e.ui.Printers.Cut(ctx) })
	case "clear":
		if err := e.ui.Logs.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(e.out, "Print history cleared")
		return nil
	default:
		return fmt.Errorf("unknown command %q (type 'help')", name)
	}
}

func (s *shell) editSettings(field, value string) error {
	p := s.env.ui.Printers
	switch field {
	case "preset":
		return p.SetPreset(value)
	case "width":
		return p.SetWidth(value)
	default:
		return p.SetHeight(value)
	}
}

// action runs fn and prints the status message it left behind.
func (s *shell) action(fn func() error) error {
	err := fn()
	view.RenderMessage(s.env.out, s.env.app.Notices.Current())
	return err
}

// show renders the active tab.
func (s *shell) show(ctx context.Context) error {
	e := s.env
	switch navigation.Tab(e.ui.Shell.ViewModel().ActiveTab) {
	case navigation.TabAccount:
		return showAccount(ctx, e)
	case navigation.TabLogs:
		if err := e.ui.Logs.Refresh(ctx); err != nil {
			return err
		}
		view.RenderLogs(e.out, e.ui.Logs.ViewModel())
	default:
		view.RenderPrinters(e.out, e.ui.Printers.ViewModel())
	}
	return nil
}
