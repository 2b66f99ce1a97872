// Package ui binds the application services to view models and
// controllers.
package ui

import (
	"isiprint/internal/app"
	"isiprint/internal/ui/controller"
	"isiprint/internal/ui/viewmodel"
)

// Controllers groups the controllers of every screen.
type Controllers struct {
	Shell    *controller.ShellController
	Printers *controller.PrintersController
	Logs     *controller.LogsController
}

// NewControllers creates the view models and controllers for a.
func NewControllers(a *app.App) *Controllers {
	return &Controllers{
		Shell:    controller.NewShellController(viewmodel.NewShellViewModel(), a),
		Printers: controller.NewPrintersController(viewmodel.NewPrintersViewModel(), a.Printers, a.Discovery, a.Printing),
		Logs:     controller.NewLogsController(viewmodel.NewLogsViewModel(), a.Logs),
	}
}

// SetOnUpdate routes every controller's change notification to fn.
func (c *Controllers) SetOnUpdate(fn func()) {
	c.Shell.SetOnUpdate(fn)
	c.Printers.SetOnUpdate(fn)
	c.Logs.SetOnUpdate(fn)
}
