package controller

import (
	"context"
	"errors"
	"sync"

	"isiprint/internal/app"
	"isiprint/internal/domain/models"
	"isiprint/internal/service/navigation"
	"isiprint/internal/service/session"
	"isiprint/internal/ui/viewmodel"
)

// ErrUnknownTab is returned by Navigate for an id that is not a tab.
var ErrUnknownTab = errors.New("unknown tab")

// ShellController drives the application frame: startup, login, logout,
// tab switching and the status message.
type ShellController struct {
	app *app.App

	mutex    sync.Mutex
	vm       *viewmodel.ShellViewModel
	onUpdate func()
}

// NewShellController subscribes the view model to the application services.
func NewShellController(vm *viewmodel.ShellViewModel, a *app.App) *ShellController {
	c := &ShellController{app: a, vm: vm}
	a.Session.SetOnChange(c.onSession)
	a.Notices.SetOnChange(c.onMessage)
	a.SetOnNavigate(c.onNavigate)
	return c
}

// SetOnUpdate sets the callback run after every view model change.
func (c *ShellController) SetOnUpdate(callback func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onUpdate = callback
}

// ViewModel returns a copy of the current view model.
func (c *ShellController) ViewModel() viewmodel.ShellViewModel {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := *c.vm
	out.Tabs = append([]string(nil), c.vm.Tabs...)
	if c.vm.Message != nil {
		msg := *c.vm.Message
		out.Message = &msg
	}
	return out
}

// Initialize verifies the stored session. It returns once the login or the
// main screen can be shown.
func (c *ShellController) Initialize(ctx context.Context) error {
	c.update(func(vm *viewmodel.ShellViewModel) {
		vm.HostAvailable = c.app.HostAvailable()
		vm.ActiveTab = string(c.app.ActiveTab())
	})
	return c.app.Start(ctx)
}

// Login signs in with the given credentials. The error text, if any, is
// also placed in the view model.
func (c *ShellController) Login(ctx context.Context, email, password string) error {
	c.update(func(vm *viewmodel.ShellViewModel) {
		vm.Email = email
		vm.LoginBusy = true
	})
	err := c.app.Login(ctx, email, password)
	c.update(func(vm *viewmodel.ShellViewModel) {
		vm.LoginBusy = false
		if err != nil {
			vm.LoginError = err.Error()
		}
	})
	return err
}

// Logout signs out. A failure to reach the backend keeps the user signed in
// and is shown as a status message.
func (c *ShellController) Logout(ctx context.Context) error {
	err := c.app.Logout(ctx)
	if errors.Is(err, session.ErrLogoutFailed) {
		c.app.Notices.Error("Error signing out")
	}
	return err
}

// Navigate switches to the tab with the given id.
func (c *ShellController) Navigate(id string) error {
	tab, ok := navigation.ParseTab(id)
	if !ok {
		return ErrUnknownTab
	}
	c.app.SetActiveTab(tab)
	return nil
}

func (c *ShellController) onSession(snap session.Snapshot) {
	c.update(func(vm *viewmodel.ShellViewModel) {
		switch snap.State {
		case session.Verifying:
			vm.Phase = viewmodel.PhaseLoading
		case session.Unauthenticated:
			vm.Phase = viewmodel.PhaseLogin
		case session.Authenticated:
			vm.Phase = viewmodel.PhaseMain
			vm.Email = snap.Session.EmailOrEmpty()
		}
		vm.LoginError = snap.Error
	})
}

func (c *ShellController) onMessage(msg *models.StatusMessage) {
	c.update(func(vm *viewmodel.ShellViewModel) {
		vm.Message = msg
	})
}

func (c *ShellController) onNavigate(tab navigation.Tab) {
	c.update(func(vm *viewmodel.ShellViewModel) {
		vm.ActiveTab = string(tab)
	})
}

func (c *ShellController) update(fn func(vm *viewmodel.ShellViewModel)) {
	c.mutex.Lock()
	fn(c.vm)
	c.vm.UpdateUIState()
	cb := c.onUpdate
	c.mutex.Unlock()

	if cb != nil {
		cb()
	}
}
