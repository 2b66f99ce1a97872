// Package app assembles the services into one application and owns their
// lifecycle.
package app

import (
	"context"
	"sync"

	"isiprint/internal/config"
	"isiprint/internal/domain/ports"
	"isiprint/internal/infrastructure/bridge"
	"isiprint/internal/infrastructure/storage"
	"isiprint/internal/service/discovery"
	"isiprint/internal/service/language"
	"isiprint/internal/service/logs"
	"isiprint/internal/service/navigation"
	"isiprint/internal/service/notify"
	"isiprint/internal/service/printers"
	"isiprint/internal/service/printing"
	"isiprint/internal/service/session"
)

// Deps are the infrastructure pieces an App is built from.
type Deps struct {
	Config *config.Config
	Logger ports.Logger
	Bridge ports.Bridge
	// Bus may be nil when the host cannot deliver events.
	Bus   ports.EventBus
	Store ports.SettingsStore
	// Backend defaults to a typed adapter over Bridge.
	Backend ports.Backend
	// Clock defaults to the wall clock.
	Clock ports.Clock
}

// App is the running client.
type App struct {
	Config  *config.Config
	Logger  ports.Logger
	Backend ports.Backend

	Notices    *notify.Queue
	Session    *session.Service
	Printers   *printers.Registry
	Discovery  *discovery.Workflow
	Printing   *printing.Service
	Logs       *logs.Service
	Language   *language.Service
	Navigation *navigation.Listener

	bridge ports.Bridge
	store  ports.SettingsStore

	mutex      sync.RWMutex
	activeTab  navigation.Tab
	onNavigate func(navigation.Tab)
}

// New opens the settings store, connects to the host and assembles the
// application. Neither a missing store nor a missing host is an error: the
// app keeps settings in memory, or runs signed out with every backend call
// failing fast.
func New(ctx context.Context, cfg *config.Config, logger ports.Logger) (*App, error) {
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	switch {
	case store == nil:
		logger.Warn("[APP] Settings store unavailable: %v (settings kept in memory only)", err)
		store = storage.NewMemorySettingsStore()
	case err != nil:
		logger.Warn("[APP] Settings store: %v (starting with empty settings)", err)
	}

	deps := Deps{Config: cfg, Logger: logger, Store: store}

	ws, err := bridge.Dial(ctx, cfg.Bridge.URL, bridge.Options{
		DialTimeout: cfg.Bridge.DialTimeout,
		CallTimeout: cfg.Bridge.CallTimeout,
	}, logger)
	if err != nil {
		logger.Info("[APP] Host not available: %v", err)
		deps.Bridge = bridge.Unavailable{}
		deps.Bus = bridge.Unavailable{}
	} else {
		deps.Bridge = ws
		deps.Bus = ws
	}

	return Assemble(deps), nil
}

// Assemble wires the services together without touching the network.
func Assemble(d Deps) *App {
	if d.Clock == nil {
		d.Clock = ports.SystemClock()
	}
	if d.Backend == nil {
		d.Backend = bridge.NewBackendAdapter(d.Bridge)
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		Config:    cfg,
		Logger:    d.Logger,
		Backend:   d.Backend,
		bridge:    d.Bridge,
		store:     d.Store,
		activeTab: navigation.TabPrinters,
	}

	a.Notices = notify.NewQueue(d.Clock, cfg.Notifications.Duration)
	a.Session = session.NewService(d.Backend, d.Logger)
	a.Printers = printers.NewRegistry(d.Backend, d.Store, d.Logger)
	a.Discovery = discovery.NewWorkflow(d.Backend, a.Printers, a.Notices, d.Logger)
	a.Language = language.NewService(d.Store, cfg.Language, d.Logger)
	a.Printing = printing.NewService(d.Backend, a.Printers, a.Language.Current, a.Notices, d.Logger)
	a.Logs = logs.NewService(d.Backend, cfg.Logs.RefreshInterval, d.Logger)
	a.Navigation = navigation.NewListener(d.Bus, a.navigate, d.Logger)

	return a
}

// Start verifies the stored session and subscribes to host navigation. It
// returns once verification has finished, which is the gate in front of
// every authenticated view. When signed in, the printer list is loaded.
func (a *App) Start(ctx context.Context) error {
	a.Navigation.Start(ctx)
	a.Session.Start(ctx)
	if err := a.Session.WaitReady(ctx); err != nil {
		return err
	}

	if a.Session.Snapshot().State == session.Authenticated {
		a.loadPrinters(ctx)
	}
	return nil
}

// Login signs in and loads the printer list.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.Session.Login(ctx, email, password); err != nil {
		return err
	}
	a.loadPrinters(ctx)
	return nil
}

// Logout signs out and stops log polling.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Session.Logout(ctx); err != nil {
		return err
	}
	a.Logs.Stop()
	return nil
}

func (a *App) loadPrinters(ctx context.Context) {
	if err := a.Printers.LoadPrinters(ctx); err != nil {
		a.Logger.Warn("[APP] Initial printer load failed: %v", err)
	}
}

// HostAvailable reports whether the host shell is connected.
func (a *App) HostAvailable() bool {
	return a.Backend.Available()
}

// ActiveTab returns the tab currently shown.
func (a *App) ActiveTab() navigation.Tab {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.activeTab
}

// SetActiveTab switches tabs from the UI itself.
func (a *App) SetActiveTab(tab navigation.Tab) {
	a.navigate(tab)
}

// SetOnNavigate registers the observer of tab switches, including those
// requested by the host menu.
func (a *App) SetOnNavigate(fn func(navigation.Tab)) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.onNavigate = fn
}

func (a *App) navigate(tab navigation.Tab) {
	a.mutex.Lock()
	a.activeTab = tab
	fn := a.onNavigate
	a.mutex.Unlock()

	a.Logger.Debug("[APP] Active tab: %s", tab)
	if fn != nil {
		fn(tab)
	}
}

// Close stops background work and releases the bridge and the store.
func (a *App) Close() error {
	a.Navigation.Stop()
	a.Logs.Stop()
	a.Notices.Close()

	var firstErr error
	if a.bridge != nil {
		if err := a.bridge.Close(); err != nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
