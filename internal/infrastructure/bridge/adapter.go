package bridge

import (
	"context"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// Backend command names.
const (
	CmdLogin               = "login"
	CmdLogout              = "logout"
	CmdVerifySession       = "verify_session"
	CmdGetLicenses         = "get_licencias"
	CmdGetPrinters         = "get_printers"
	CmdPrintTestPage       = "print_test_page"
	CmdSendCutCommand      = "send_cut_command"
	CmdClearPrintJobs      = "clear_print_jobs"
	CmdGetLogs             = "get_logs"
	CmdGetLocalIP          = "get_local_ip"
	CmdScanNetworkPrinters = "scan_network_printers"
	CmdAddNetworkPrinter   = "add_network_printer"

	// EventNavigate is emitted by the host menu with a tab id payload.
	EventNavigate = "navigate"
)

// BackendAdapter exposes the typed command set on top of a raw Bridge.
type BackendAdapter struct {
	bridge ports.Bridge
}

// NewBackendAdapter wraps bridge.
func NewBackendAdapter(bridge ports.Bridge) *BackendAdapter {
	return &BackendAdapter{bridge: bridge}
}

func (a *BackendAdapter) Available() bool {
	return a.bridge.Available()
}

func call[T any](ctx context.Context, b ports.Bridge, cmd string, args any) (models.CommandResponse[T], error) {
	var resp models.CommandResponse[T]
	err := b.Invoke(ctx, cmd, args, &resp)
	if err != nil {
		return models.CommandResponse[T]{}, err
	}
	return resp, nil
}

func (a *BackendAdapter) Login(ctx context.Context, email, password string) (models.CommandResponse[models.SessionState], error) {
	return call[models.SessionState](ctx, a.bridge, CmdLogin, map[string]any{
		"email":    email,
		"password": password,
	})
}

func (a *BackendAdapter) Logout(ctx context.Context) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdLogout, nil)
}

func (a *BackendAdapter) VerifySession(ctx context.Context) (models.CommandResponse[models.SessionState], error) {
	return call[models.SessionState](ctx, a.bridge, CmdVerifySession, nil)
}

func (a *BackendAdapter) GetLicenses(ctx context.Context) (models.CommandResponse[[]models.License], error) {
	return call[[]models.License](ctx, a.bridge, CmdGetLicenses, nil)
}

func (a *BackendAdapter) GetPrinters(ctx context.Context) (models.CommandResponse[[]string], error) {
	return call[[]string](ctx, a.bridge, CmdGetPrinters, nil)
}

func (a *BackendAdapter) PrintTestPage(ctx context.Context, printerName string, settings models.PrintSettings, language string) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdPrintTestPage, map[string]any{
		"printerName": printerName,
		"settings":    settings,
		"language":    language,
	})
}

func (a *BackendAdapter) SendCutCommand(ctx context.Context, printerName string) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdSendCutCommand, map[string]any{
		"printerName": printerName,
	})
}

func (a *BackendAdapter) ClearPrintJobs(ctx context.Context) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdClearPrintJobs, nil)
}

// GetLogs is the only command answering with a bare list.
func (a *BackendAdapter) GetLogs(ctx context.Context) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := a.bridge.Invoke(ctx, CmdGetLogs, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *BackendAdapter) GetLocalIP(ctx context.Context) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdGetLocalIP, nil)
}

func (a *BackendAdapter) ScanNetworkPrinters(ctx context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
	return call[[]models.NetworkPrinter](ctx, a.bridge, CmdScanNetworkPrinters, nil)
}

func (a *BackendAdapter) AddNetworkPrinter(ctx context.Context, printer models.NetworkPrinter) (models.CommandResponse[string], error) {
	return call[string](ctx, a.bridge, CmdAddNetworkPrinter, map[string]any{
		"printer": printer,
	})
}

var _ ports.Backend = (*BackendAdapter)(nil)
