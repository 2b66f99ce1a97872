// Package printing sends test pages and cut commands to the selected
// printer.
package printing

import (
	"context"
	"errors"
	"fmt"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// User-facing texts.
const (
	MsgSelectFirst  = "Select a printer first"
	MsgPrinting     = "Printing test page..."
	MsgPrintSuccess = "Test page sent"
	MsgPrintError   = "Error printing test page"
	MsgCutSuccess   = "Cut command sent"
	MsgCutError     = "Error sending cut"
	MsgCutFailed    = "Error sending cut command"
)

// ErrNoPrinterSelected is returned when no printer is selected.
var ErrNoPrinterSelected = errors.New("no printer selected")

// Selection exposes the selected printer and its effective settings.
type Selection interface {
	Selected() string
	CurrentSettings() models.PrintSettings
}

// Notifier shows transient status messages.
type Notifier interface {
	Success(text string)
	Error(text string)
}

// Service runs print actions against the current selection.
type Service struct {
	backend   ports.Backend
	selection Selection
	language  func() string
	notifier  Notifier
	logger    ports.Logger
}

// NewService creates the service. language returns the code sent along
// with test pages.
func NewService(backend ports.Backend, selection Selection, language func() string, notifier Notifier, logger ports.Logger) *Service {
	return &Service{
		backend:   backend,
		selection: selection,
		language:  language,
		notifier:  notifier,
		logger:    logger,
	}
}

// TestPrint prints a test page on the selected printer with its settings.
func (s *Service) TestPrint(ctx context.Context) error {
	printer := s.selection.Selected()
	if printer == "" {
		s.notifier.Error(MsgSelectFirst)
		return ErrNoPrinterSelected
	}

	s.notifier.Success(MsgPrinting)
	settings := s.selection.CurrentSettings()

	resp, err := s.backend.PrintTestPage(ctx, printer, settings, s.language())
	if err != nil {
		s.logger.Error("[PRINT] print_test_page on %q: %v", printer, err)
		s.notifier.Error(MsgPrintError)
		return fmt.Errorf("test print: %w", err)
	}
	if !resp.Success {
		text := resp.ErrorText(MsgPrintError)
		s.notifier.Error(text)
		return &models.BackendError{Message: text}
	}

	s.logger.Info("[PRINT] Test page sent to %q (%s)", printer, settings.Preset)
	s.notifier.Success(dataOr(resp, MsgPrintSuccess))
	return nil
}

// Cut sends a paper cut command to the selected printer.
func (s *Service) Cut(ctx context.Context) error {
	printer := s.selection.Selected()
	if printer == "" {
		s.notifier.Error(MsgSelectFirst)
		return ErrNoPrinterSelected
	}

	resp, err := s.backend.SendCutCommand(ctx, printer)
	if err != nil {
		s.logger.Error("[PRINT] send_cut_command on %q: %v", printer, err)
		s.notifier.Error(MsgCutFailed)
		return fmt.Errorf("cut: %w", err)
	}
	if !resp.Success {
		text := resp.ErrorText(MsgCutError)
		s.notifier.Error(text)
		return &models.BackendError{Message: text}
	}

	s.notifier.Success(dataOr(resp, MsgCutSuccess))
	return nil
}

func dataOr(resp models.CommandResponse[string], fallback string) string {
	if text := resp.DataOr(""); text != "" {
		return text
	}
	return fallback
}
