// Package printers keeps the list of installed printers, the current
// selection and the per-printer print settings.
package printers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/unicode/norm"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

var (
	// ErrEmptyPrinterName is returned when selecting a blank name.
	ErrEmptyPrinterName = errors.New("printer name is empty")
	// ErrLoadFailed wraps inventory load failures; the previous inventory
	// is kept.
	ErrLoadFailed = errors.New("failed to load printers")
)

// Registry owns the printer inventory and the settings registry. Settings
// are read from the store once and written through on every change.
type Registry struct {
	backend ports.Backend
	store   ports.SettingsStore
	logger  ports.Logger

	mutex    sync.Mutex
	printers []string
	selected string
	settings map[string]models.PrintSettings
	onChange func()
}

// NewRegistry loads the persisted settings. Unreadable or malformed data
// yields an empty registry.
func NewRegistry(backend ports.Backend, store ports.SettingsStore, logger ports.Logger) *Registry {
	r := &Registry{
		backend:  backend,
		store:    store,
		logger:   logger,
		settings: make(map[string]models.PrintSettings),
	}
	r.loadSettings()
	return r
}

// key folds equivalent Unicode spellings of a printer name together.
func key(name string) string {
	return norm.NFC.String(name)
}

func (r *Registry) loadSettings() {
	raw, err := r.store.Get(ports.KeyPrinterSettings)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			r.logger.Warn("[PRINTERS] Failed to read settings: %v", err)
		}
		return
	}

	var stored map[string]models.PrintSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.logger.Warn("[PRINTERS] Ignoring malformed settings: %v", err)
		return
	}
	for name, s := range stored {
		r.settings[key(name)] = s.Normalize()
	}
	r.logger.Debug("[PRINTERS] Loaded settings for %d printers", len(r.settings))
}

// saveLocked writes the whole registry. Failures are logged only.
func (r *Registry) saveLocked() {
	raw, err := json.Marshal(r.settings)
	if err != nil {
		r.logger.Error("[PRINTERS] Failed to encode settings: %v", err)
		return
	}
	if err := r.store.Put(ports.KeyPrinterSettings, raw); err != nil {
		r.logger.Warn("[PRINTERS] Failed to persist settings: %v", err)
	}
}

// SetOnChange registers the observer called after inventory, selection or
// settings change.
func (r *Registry) SetOnChange(fn func()) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.onChange = fn
}

func (r *Registry) notify() {
	r.mutex.Lock()
	fn := r.onChange
	r.mutex.Unlock()
	if fn != nil {
		fn()
	}
}

// LoadPrinters refreshes the inventory from the backend. On failure the
// previous inventory is left untouched and the error is returned for
// display only.
func (r *Registry) LoadPrinters(ctx context.Context) error {
	resp, err := r.backend.GetPrinters(ctx)
	if err != nil {
		r.logger.Error("[PRINTERS] get_printers transport error: %v", err)
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if !resp.Success {
		text := resp.ErrorText(ErrLoadFailed.Error())
		r.logger.Warn("[PRINTERS] get_printers failed: %s", text)
		return &models.BackendError{Message: text}
	}

	list := append([]string(nil), resp.DataOr(nil)...)

	r.mutex.Lock()
	r.printers = list
	if match, ok := find(list, r.selected); ok {
		// Keep the inventory's spelling so the selection compares equal.
		r.selected = match
	} else if len(list) > 0 {
		r.selected = list[0]
	} else {
		r.selected = ""
	}
	selected := r.selected
	r.mutex.Unlock()

	r.logger.Info("[PRINTERS] %d printers, selected %q", len(list), selected)
	r.notify()
	return nil
}

// find returns the inventory entry naming the same printer as name.
func find(list []string, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	k := key(name)
	for _, p := range list {
		if key(p) == k {
			return p, true
		}
	}
	return "", false
}

// Printers returns a copy of the inventory.
func (r *Registry) Printers() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.printers...)
}

// Selected returns the selected printer, "" when none.
func (r *Registry) Selected() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.selected
}

// SelectPrinter sets the selection. The name need not be in the inventory.
func (r *Registry) SelectPrinter(name string) error {
	if name == "" {
		return ErrEmptyPrinterName
	}
	r.mutex.Lock()
	r.selected = name
	r.mutex.Unlock()

	r.notify()
	return nil
}

// ResolveSettings returns the stored settings for name or the default.
func (r *Registry) ResolveSettings(name string) models.PrintSettings {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.resolveLocked(name)
}

func (r *Registry) resolveLocked(name string) models.PrintSettings {
	if s, ok := r.settings[key(name)]; ok {
		return s.Clone()
	}
	return models.DefaultPrintSettings()
}

// CurrentSettings resolves the settings of the selected printer.
func (r *Registry) CurrentSettings() models.PrintSettings {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.resolveLocked(r.selected)
}

// UpdateSettings merges patch into the settings of name, normalises the
// result and persists the whole registry. A failed write does not roll the
// in-memory value back.
func (r *Registry) UpdateSettings(name string, patch models.SettingsPatch) (models.PrintSettings, error) {
	if name == "" {
		return models.PrintSettings{}, ErrEmptyPrinterName
	}

	r.mutex.Lock()
	next := r.resolveLocked(name).Apply(patch)
	r.settings[key(name)] = next
	r.saveLocked()
	r.mutex.Unlock()

	r.logger.Debug("[PRINTERS] Settings for %q: %+v", name, next)
	r.notify()
	return next.Clone(), nil
}
