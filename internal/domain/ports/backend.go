package ports

import (
	"context"

	"isiprint/internal/domain/models"
)

// Backend is the typed command surface of the backend. Every method returns
// a transport error separately from the backend-reported envelope.
type Backend interface {
	Available() bool

	Login(ctx context.Context, email, password string) (models.CommandResponse[models.SessionState], error)
	Logout(ctx context.Context) (models.CommandResponse[string], error)
	VerifySession(ctx context.Context) (models.CommandResponse[models.SessionState], error)
	GetLicenses(ctx context.Context) (models.CommandResponse[[]models.License], error)

	GetPrinters(ctx context.Context) (models.CommandResponse[[]string], error)
	PrintTestPage(ctx context.Context, printerName string, settings models.PrintSettings, language string) (models.CommandResponse[string], error)
	SendCutCommand(ctx context.Context, printerName string) (models.CommandResponse[string], error)
	ClearPrintJobs(ctx context.Context) (models.CommandResponse[string], error)
	GetLogs(ctx context.Context) ([]models.LogEntry, error)

	GetLocalIP(ctx context.Context) (models.CommandResponse[string], error)
	ScanNetworkPrinters(ctx context.Context) (models.CommandResponse[[]models.NetworkPrinter], error)
	AddNetworkPrinter(ctx context.Context, printer models.NetworkPrinter) (models.CommandResponse[string], error)
}
