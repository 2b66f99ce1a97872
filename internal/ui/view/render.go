// Package view renders view models as plain text for the terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"isiprint/internal/domain/models"
	"isiprint/internal/ui/viewmodel"
)

// RenderShell prints the frame: host state, account and tab bar.
func RenderShell(w io.Writer, vm viewmodel.ShellViewModel) {
	host := "connected"
	if !vm.HostAvailable {
		host = "not available"
	}
	fmt.Fprintf(w, "Host:    %s\n", host)

	switch vm.Phase {
	case viewmodel.PhaseLoading:
		fmt.Fprintln(w, "Session: verifying...")
	case viewmodel.PhaseLogin:
		fmt.Fprintln(w, "Session: signed out")
		if vm.LoginError != "" {
			fmt.Fprintf(w, "Error:   %s\n", vm.LoginError)
		}
	case viewmodel.PhaseMain:
		fmt.Fprintf(w, "Session: signed in as %s\n", vm.Email)
		tabs := make([]string, len(vm.Tabs))
		for i, t := range vm.Tabs {
			if t == vm.ActiveTab {
				tabs[i] = "[" + t + "]"
			} else {
				tabs[i] = " " + t + " "
			}
		}
		fmt.Fprintf(w, "Tabs:    %s\n", strings.Join(tabs, " "))
	}

	RenderMessage(w, vm.Message)
}

// RenderMessage prints the status message, if any.
func RenderMessage(w io.Writer, msg *models.StatusMessage) {
	if msg == nil {
		return
	}
	mark := "✓"
	if msg.Kind == models.MessageError {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg.Text)
}

// RenderPrinters prints the printer list with the selection marked and the
// settings of the selected printer.
func RenderPrinters(w io.Writer, vm viewmodel.PrintersViewModel) {
	if len(vm.Printers) == 0 {
		fmt.Fprintln(w, vm.EmptyListText)
	}
	for _, name := range vm.Printers {
		mark := " "
		if name == vm.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\n", mark, name)
	}
	if vm.Selected == "" {
		return
	}

	fmt.Fprintln(w)
	RenderSettings(w, vm)
}

// RenderSettings prints the settings block of the selected printer.
func RenderSettings(w io.Writer, vm viewmodel.PrintersViewModel) {
	fmt.Fprintf(w, "Printer: %s\n", vm.Selected)
	fmt.Fprintf(w, "Preset:  %s (%s)\n", vm.Preset, strings.Join(vm.Presets, "|"))
	if vm.WidthText != "" || vm.HeightText != "" {
		fmt.Fprintf(w, "Size:    %s x %s mm\n", orDash(vm.WidthText), orDash(vm.HeightText))
	}
	if vm.DimensionsEditable {
		fmt.Fprintln(w, "         (width and height are editable)")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderCandidates prints the last network scan result as a numbered table.
func RenderCandidates(w io.Writer, vm viewmodel.PrintersViewModel) {
	if vm.LocalIP != "" {
		fmt.Fprintf(w, "Local IP: %s\n", vm.LocalIP)
	}
	if !vm.CandidatesVisible {
		fmt.Fprintln(w, "No scan has been run")
		return
	}
	if len(vm.Candidates) == 0 {
		fmt.Fprintln(w, "No network printers found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tADDRESS\tPROTOCOL\tONLINE")
	for i, c := range vm.Candidates {
		online := "no"
		if c.IsOnline {
			online = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, c.Name, c.Key(), c.Protocol, online)
	}
	tw.Flush()
}

// RenderLogs prints log rows, newest first.
func RenderLogs(w io.Writer, vm viewmodel.LogsViewModel) {
	if vm.Empty {
		fmt.Fprintln(w, "No log entries")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range vm.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Icon, r.Timestamp, r.Level, r.Message)
	}
	tw.Flush()
}

// RenderLicenses prints the licences of the signed-in account.
func RenderLicenses(w io.Writer, email string, licenses []models.License) {
	fmt.Fprintf(w, "Account: %s\n", email)
	if len(licenses) == 0 {
		fmt.Fprintln(w, "No licences")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tCONNECTIONS\tEXPIRES\tSTATE\tDELEGATED")
	for _, l := range licenses {
		delegated := "no"
		if l.Delegated {
			delegated = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", l.ProductType, l.MaxConnections, l.ExpiresAt, l.State, delegated)
	}
	tw.Flush()
}
