package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"isiprint/internal/domain/models"
	"isiprint/internal/service/discovery"
	"isiprint/internal/service/printers"
	"isiprint/internal/service/printing"
	"isiprint/internal/ui/viewmodel"
)

var (
	// ErrUnknownPreset is returned for a preset name that does not exist.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrNoCandidate is returned by Adopt for an index outside the list.
	ErrNoCandidate = errors.New("no such network printer")
)

// PrintersController drives the printers tab.
type PrintersController struct {
	registry  *printers.Registry
	discovery *discovery.Workflow
	printing  *printing.Service

	mutex    sync.Mutex
	vm       *viewmodel.PrintersViewModel
	onUpdate func()
}

func NewPrintersController(vm *viewmodel.PrintersViewModel, registry *printers.Registry, workflow *discovery.Workflow, printSvc *printing.Service) *PrintersController {
	c := &PrintersController{
		registry:  registry,
		discovery: workflow,
		printing:  printSvc,
		vm:        vm,
	}
	registry.SetOnChange(c.syncRegistry)
	workflow.SetOnChange(c.syncDiscovery)
	c.syncRegistry()
	c.syncDiscovery(workflow.State())
	return c
}

// SetOnUpdate sets the callback run after every view model change.
func (c *PrintersController) SetOnUpdate(callback func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onUpdate = callback
}

// ViewModel returns a copy of the current view model.
func (c *PrintersController) ViewModel() viewmodel.PrintersViewModel {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := *c.vm
	out.Printers = append([]string(nil), c.vm.Printers...)
	out.Candidates = append([]models.NetworkPrinter(nil), c.vm.Candidates...)
	return out
}

// Refresh reloads the printer list. A failure keeps the current list.
func (c *PrintersController) Refresh(ctx context.Context) error {
	return c.registry.LoadPrinters(ctx)
}

// Select makes name the selected printer.
func (c *PrintersController) Select(name string) error {
	return c.registry.SelectPrinter(name)
}

// SetPreset changes the preset of the selected printer.
func (c *PrintersController) SetPreset(name string) error {
	p := models.Preset(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return c.patchSelected(models.SettingsPatch{Preset: &p})
}

// SetWidth sets the custom width from user input. Text that is not a
// number clears the value.
func (c *PrintersController) SetWidth(text string) error {
	return c.patchSelected(models.SettingsPatch{WidthMm: models.Float(parseMm(text))})
}

// SetHeight sets the custom height from user input.
func (c *PrintersController) SetHeight(text string) error {
	return c.patchSelected(models.SettingsPatch{HeightMm: models.Float(parseMm(text))})
}

func parseMm(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, ",", ".")), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (c *PrintersController) patchSelected(patch models.SettingsPatch) error {
	_, err := c.registry.UpdateSettings(c.registry.Selected(), patch)
	return err
}

// Scan starts a network scan and waits for it to finish.
func (c *PrintersController) Scan(ctx context.Context) error {
	return c.discovery.Scan(ctx)
}

// Adopt installs the candidate at index of the last scan result.
func (c *PrintersController) Adopt(ctx context.Context, index int) error {
	candidates := c.discovery.State().Candidates
	if index < 0 || index >= len(candidates) {
		return ErrNoCandidate
	}
	return c.discovery.Adopt(ctx, candidates[index])
}

func (c *PrintersController) TestPrint(ctx context.Context) error {
	return c.printing.TestPrint(ctx)
}

func (c *PrintersController) Cut(ctx context.Context) error {
	return c.printing.Cut(ctx)
}

func (c *PrintersController) syncRegistry() {
	list := c.registry.Printers()
	selected := c.registry.Selected()
	settings := c.registry.CurrentSettings()

	c.update(func(vm *viewmodel.PrintersViewModel) {
		vm.Printers = list
		vm.Selected = selected
		vm.SetSettings(settings)
	})
}

func (c *PrintersController) syncDiscovery(st discovery.State) {
	c.update(func(vm *viewmodel.PrintersViewModel) {
		vm.Scanning = st.Scanning
		vm.LocalIP = st.LocalIP
		vm.Candidates = st.Candidates
		vm.CandidatesVisible = st.Ready
	})
}

func (c *PrintersController) update(fn func(vm *viewmodel.PrintersViewModel)) {
	c.mutex.Lock()
	fn(c.vm)
	c.vm.UpdateUIState()
	cb := c.onUpdate
	c.mutex.Unlock()

	if cb != nil {
		cb()
	}
}
