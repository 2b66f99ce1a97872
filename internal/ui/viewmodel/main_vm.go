package viewmodel

import "isiprint/internal/domain/models"

// Phase is the top-level screen shown by the shell.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLogin
	PhaseMain
)

// ShellViewModel holds the state of the application frame: the login
// screen, the tab bar and the status message.
type ShellViewModel struct {
	Phase         Phase
	HostAvailable bool

	// Login screen
	Email           string
	LoginError      string
	LoginBusy       bool
	LoginButtonText string
	LoginEnabled    bool

	// Main screen
	ActiveTab string
	Tabs      []string

	// Status message, nil when none is visible
	Message *models.StatusMessage
}

// NewShellViewModel returns the state shown while the session is verified.
func NewShellViewModel() *ShellViewModel {
	return &ShellViewModel{
		Phase:           PhaseLoading,
		LoginButtonText: "Sign in",
		ActiveTab:       "printers",
		Tabs:            []string{"account", "printers", "logs"},
	}
}

// UpdateUIState derives button texts and enablement from the raw fields.
func (vm *ShellViewModel) UpdateUIState() {
	switch {
	case vm.LoginBusy:
		vm.LoginButtonText = "Signing in..."
		vm.LoginEnabled = false
	default:
		vm.LoginButtonText = "Sign in"
		vm.LoginEnabled = vm.Phase == PhaseLogin
	}
}
