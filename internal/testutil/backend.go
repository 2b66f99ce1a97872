// Package testutil holds in-memory doubles for the ports used by the
// services: a scriptable backend, a manual clock, an event bus and a
// settings store.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"isiprint/internal/domain/models"
)

// OK builds a successful envelope carrying v.
func OK[T any](v T) models.CommandResponse[T] {
	return models.CommandResponse[T]{Success: true, Data: &v}
}

// Fail builds a backend failure envelope with text. An empty text yields an
// envelope without an error field.
func Fail[T any](text string) models.CommandResponse[T] {
	resp := models.CommandResponse[T]{}
	if text != "" {
		resp.Error = &text
	}
	return resp
}

// FakeBackend is a scriptable ports.Backend. Unset hooks fail with a
// transport error naming the command.
type FakeBackend struct {
	Unavailable bool

	LoginFn               func(ctx context.Context, email, password string) (models.CommandResponse[models.SessionState], error)
	LogoutFn              func(ctx context.Context) (models.CommandResponse[string], error)
	VerifySessionFn       func(ctx context.Context) (models.CommandResponse[models.SessionState], error)
	GetLicensesFn         func(ctx context.Context) (models.CommandResponse[[]models.License], error)
	GetPrintersFn         func(ctx context.Context) (models.CommandResponse[[]string], error)
	PrintTestPageFn       func(ctx context.Context, printerName string, settings models.PrintSettings, language string) (models.CommandResponse[string], error)
	SendCutCommandFn      func(ctx context.Context, printerName string) (models.CommandResponse[string], error)
	ClearPrintJobsFn      func(ctx context.Context) (models.CommandResponse[string], error)
	GetLogsFn             func(ctx context.Context) ([]models.LogEntry, error)
	GetLocalIPFn          func(ctx context.Context) (models.CommandResponse[string], error)
	ScanNetworkPrintersFn func(ctx context.Context) (models.CommandResponse[[]models.NetworkPrinter], error)
	AddNetworkPrinterFn   func(ctx context.Context, printer models.NetworkPrinter) (models.CommandResponse[string], error)

	mutex sync.Mutex
	calls map[string]int
}

// Calls returns how many times cmd was invoked.
func (f *FakeBackend) Calls(cmd string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[cmd]
}

// TotalCalls returns the number of invocations of any command.
func (f *FakeBackend) TotalCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeBackend) record(cmd string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[cmd]++
}

func notStubbed(cmd string) error {
	return fmt.Errorf("fake backend: %s not stubbed", cmd)
}

func (f *FakeBackend) Available() bool {
	return !f.Unavailable
}

func (f *FakeBackend) Login(ctx context.Context, email, password string) (models.CommandResponse[models.SessionState], error) {
	f.record("login")
	if f.LoginFn == nil {
		return models.CommandResponse[models.SessionState]{}, notStubbed("login")
	}
	return f.LoginFn(ctx, email, password)
}

func (f *FakeBackend) Logout(ctx context.Context) (models.CommandResponse[string], error) {
	f.record("logout")
	if f.LogoutFn == nil {
		return models.CommandResponse[string]{}, notStubbed("logout")
	}
	return f.LogoutFn(ctx)
}

func (f *FakeBackend) VerifySession(ctx context.Context) (models.CommandResponse[models.SessionState], error) {
	f.record("verify_session")
	if f.VerifySessionFn == nil {
		return models.CommandResponse[models.SessionState]{}, notStubbed("verify_session")
	}
	return f.VerifySessionFn(ctx)
}

func (f *FakeBackend) GetLicenses(ctx context.Context) (models.CommandResponse[[]models.License], error) {
	f.record("get_licencias")
	if f.GetLicensesFn == nil {
		return models.CommandResponse[[]models.License]{}, notStubbed("get_licencias")
	}
	return f.GetLicensesFn(ctx)
}

func (f *FakeBackend) GetPrinters(ctx context.Context) (models.CommandResponse[[]string], error) {
	f.record("get_printers")
	if f.GetPrintersFn == nil {
		return models.CommandResponse[[]string]{}, notStubbed("get_printers")
	}
	return f.GetPrintersFn(ctx)
}

func (f *FakeBackend) PrintTestPage(ctx context.Context, printerName string, settings models.PrintSettings, language string) (models.CommandResponse[string], error) {
	f.record("print_test_page")
	if f.PrintTestPageFn == nil {
		return models.CommandResponse[string]{}, notStubbed("print_test_page")
	}
	return f.PrintTestPageFn(ctx, printerName, settings, language)
}

func (f *FakeBackend) SendCutCommand(ctx context.Context, printerName string) (models.CommandResponse[string], error) {
	f.record("send_cut_command")
	if f.SendCutCommandFn == nil {
		return models.CommandResponse[string]{}, notStubbed("send_cut_command")
	}
	return f.SendCutCommandFn(ctx, printerName)
}

func (f *FakeBackend) ClearPrintJobs(ctx context.Context) (models.CommandResponse[string], error) {
	f.record("clear_print_jobs")
	if f.ClearPrintJobsFn == nil {
		return models.CommandResponse[string]{}, notStubbed("clear_print_jobs")
	}
	return f.ClearPrintJobsFn(ctx)
}

func (f *FakeBackend) GetLogs(ctx context.Context) ([]models.LogEntry, error) {
	f.record("get_logs")
	if f.GetLogsFn == nil {
		return nil, notStubbed("get_logs")
	}
	return f.GetLogsFn(ctx)
}

func (f *FakeBackend) GetLocalIP(ctx context.Context) (models.CommandResponse[string], error) {
	f.record("get_local_ip")
	if f.GetLocalIPFn == nil {
		return models.CommandResponse[string]{}, notStubbed("get_local_ip")
	}
	return f.GetLocalIPFn(ctx)
}

func (f *FakeBackend) ScanNetworkPrinters(ctx context.Context) (models.CommandResponse[[]models.NetworkPrinter], error) {
	f.record("scan_network_printers")
	if f.ScanNetworkPrintersFn == nil {
		return models.CommandResponse[[]models.NetworkPrinter]{}, notStubbed("scan_network_printers")
	}
	return f.ScanNetworkPrintersFn(ctx)
}

func (f *FakeBackend) AddNetworkPrinter(ctx context.Context, printer models.NetworkPrinter) (models.CommandResponse[string], error) {
	f.record("add_network_printer")
	if f.AddNetworkPrinterFn == nil {
		return models.CommandResponse[string]{}, notStubbed("add_network_printer")
	}
	return f.AddNetworkPrinterFn(ctx, printer)
}
