// Package discovery finds printers on the local network through the
// backend and installs the ones the user picks.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// User-facing texts.
const (
	MsgScanning    = "Scanning network..."
	MsgScanError   = "Error scanning the network"
	MsgAddError    = "Error adding printer"
	MsgAddFailed   = "Error adding network printer"
	MsgReloadError = "Printer added, but the printer list could not be refreshed"
)

// ErrScanInProgress is returned when Scan is called while a scan runs.
var ErrScanInProgress = errors.New("network scan already in progress")

// PrinterLoader refreshes the installed printer list.
type PrinterLoader interface {
	LoadPrinters(ctx context.Context) error
}

// Notifier shows transient status messages.
type Notifier interface {
	Success(text string)
	Error(text string)
}

// State is a snapshot of the workflow.
type State struct {
	Scanning   bool
	Ready      bool
	LocalIP    string
	Candidates []models.NetworkPrinter
}

// Workflow runs network scans and adopts candidates into the system.
type Workflow struct {
	backend  ports.Backend
	printers PrinterLoader
	notifier Notifier
	logger   ports.Logger

	mutex      sync.Mutex
	scanning   bool
	ready      bool
	localIP    string
	candidates []models.NetworkPrinter
	onChange   func(State)
}

func NewWorkflow(backend ports.Backend, printers PrinterLoader, notifier Notifier, logger ports.Logger) *Workflow {
	return &Workflow{
		backend:  backend,
		printers: printers,
		notifier: notifier,
		logger:   logger,
	}
}

// SetOnChange registers the observer called whenever the state changes.
func (w *Workflow) SetOnChange(fn func(State)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.onChange = fn
}

// State returns a copy of the current state.
func (w *Workflow) State() State {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.stateLocked()
}

func (w *Workflow) stateLocked() State {
	return State{
		Scanning:   w.scanning,
		Ready:      w.ready,
		LocalIP:    w.localIP,
		Candidates: append([]models.NetworkPrinter(nil), w.candidates...),
	}
}

func (w *Workflow) changed() {
	w.mutex.Lock()
	st := w.stateLocked()
	fn := w.onChange
	w.mutex.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Scan asks the backend for printers on the local network. Only one scan
// runs at a time.
func (w *Workflow) Scan(ctx context.Context) error {
	w.mutex.Lock()
	if w.scanning {
		w.mutex.Unlock()
		return ErrScanInProgress
	}
	w.scanning = true
	w.mutex.Unlock()

	defer func() {
		w.mutex.Lock()
		w.scanning = false
		w.mutex.Unlock()
		w.changed()
	}()

	w.changed()
	w.notifier.Success(MsgScanning)

	if ipResp, err := w.backend.GetLocalIP(ctx); err != nil {
		w.logger.Debug("[DISCOVERY] get_local_ip failed: %v", err)
	} else if ipResp.OK() && *ipResp.Data != "" {
		w.mutex.Lock()
		w.localIP = *ipResp.Data
		w.mutex.Unlock()
	}

	resp, err := w.backend.ScanNetworkPrinters(ctx)
	if err != nil {
		w.logger.Error("[DISCOVERY] scan_network_printers transport error: %v", err)
		w.notifier.Error(MsgScanError)
		return fmt.Errorf("scan: %w", err)
	}
	if !resp.OK() {
		text := resp.ErrorText(MsgScanError)
		w.logger.Warn("[DISCOVERY] Scan failed: %s", text)
		w.notifier.Error(text)
		return &models.BackendError{Message: text}
	}

	found := models.UniqueNetworkPrinters(*resp.Data)

	w.mutex.Lock()
	w.candidates = found
	w.ready = true
	w.mutex.Unlock()

	w.logger.Info("[DISCOVERY] Found %d network printers", len(found))
	w.notifier.Success(fmt.Sprintf("Found %d network printers", len(found)))
	return nil
}

// Adopt installs candidate through the backend and refreshes the printer
// list once. The inventory is never edited directly.
func (w *Workflow) Adopt(ctx context.Context, candidate models.NetworkPrinter) error {
	resp, err := w.backend.AddNetworkPrinter(ctx, candidate)
	if err != nil {
		w.logger.Error("[DISCOVERY] add_network_printer transport error: %v", err)
		w.notifier.Error(MsgAddFailed)
		return fmt.Errorf("add %s: %w", candidate.Name, err)
	}
	if !resp.Success {
		text := resp.ErrorText(MsgAddError)
		w.logger.Warn("[DISCOVERY] Adding %s failed: %s", candidate, text)
		w.notifier.Error(text)
		return &models.BackendError{Message: text}
	}

	w.logger.Info("[DISCOVERY] Added %s", candidate)
	if err := w.printers.LoadPrinters(ctx); err != nil {
		w.logger.Warn("[DISCOVERY] Reload after add failed: %v", err)
		w.notifier.Error(MsgReloadError)
		return err
	}

	w.notifier.Success(fmt.Sprintf("Printer %s added", candidate.Name))
	return nil
}
