package controller

import (
	"context"
	"sync"

	"isiprint/internal/domain/models"
	"isiprint/internal/service/logs"
	"isiprint/internal/ui/viewmodel"
)

// LogsController drives the logs tab. Polling runs only while the tab is
// shown.
type LogsController struct {
	logs *logs.Service

	mutex    sync.Mutex
	vm       *viewmodel.LogsViewModel
	onUpdate func()
}

func NewLogsController(vm *viewmodel.LogsViewModel, svc *logs.Service) *LogsController {
	c := &LogsController{logs: svc, vm: vm}
	svc.SetUpdateCallback(c.onEntries)
	return c
}

func (c *LogsController) SetOnUpdate(callback func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onUpdate = callback
}

// ViewModel returns a copy of the current view model.
func (c *LogsController) ViewModel() viewmodel.LogsViewModel {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := *c.vm
	out.Rows = append([]viewmodel.LogRow(nil), c.vm.Rows...)
	return out
}

// Show starts polling.
func (c *LogsController) Show(ctx context.Context) {
	c.logs.Start(ctx)
}

// Hide stops polling.
func (c *LogsController) Hide() {
	c.logs.Stop()
}

// Refresh loads the log once.
func (c *LogsController) Refresh(ctx context.Context) error {
	return c.logs.Refresh(ctx)
}

// Clear empties the backend print history.
func (c *LogsController) Clear(ctx context.Context) error {
	c.update(func(vm *viewmodel.LogsViewModel) { vm.Clearing = true })
	err := c.logs.Clear(ctx)
	c.update(func(vm *viewmodel.LogsViewModel) { vm.Clearing = false })
	return err
}

func (c *LogsController) onEntries(entries []models.LogEntry) {
	c.update(func(vm *viewmodel.LogsViewModel) { vm.SetEntries(entries) })
}

func (c *LogsController) update(fn func(vm *viewmodel.LogsViewModel)) {
	c.mutex.Lock()
	fn(c.vm)
	cb := c.onUpdate
	c.mutex.Unlock()

	if cb != nil {
		cb()
	}
}
