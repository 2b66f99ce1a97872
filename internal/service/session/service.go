// Package session tracks whether the user is signed in to the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// State is the authentication state of the client.
type State int

const (
	Verifying State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidCredentials is the login error when the backend gave no text.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginFailed is the login error when the backend could not be reached.
	ErrLoginFailed = errors.New("login error")
	// ErrLogoutFailed means the logout call never completed; the session is
	// still considered active.
	ErrLogoutFailed = errors.New("logout error")
	// ErrInvalidTransition is returned for an operation not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("operation not allowed in current session state")
	// ErrNotReady is returned while the stored session is being verified.
	ErrNotReady = errors.New("session verification in progress")
	// ErrBusy is returned when a login or logout is already running.
	ErrBusy = errors.New("session operation already in progress")
)

// Snapshot is an immutable view of the service.
type Snapshot struct {
	State   State
	Session models.SessionState
	// Error is the last user-facing login/logout error, "" when none.
	Error string
}

// Service is the session state machine. It starts in Verifying and leaves
// it exactly once, through Start.
type Service struct {
	backend ports.Backend
	logger  ports.Logger

	mutex    sync.Mutex
	state    State
	session  models.SessionState
	lastErr  string
	busy     bool
	started  bool
	ready    chan struct{}
	onChange func(Snapshot)
}

func NewService(backend ports.Backend, logger ports.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
		state:   Verifying,
		ready:   make(chan struct{}),
	}
}

// SetOnChange registers the observer called after every transition.
func (s *Service) SetOnChange(fn func(Snapshot)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onChange = fn
}

// Snapshot returns the current state with a private copy of the session.
func (s *Service) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Session: s.session.Clone(), Error: s.lastErr}
}

// Ready is closed once verification has finished.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until verification has finished or ctx is done.
func (s *Service) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start verifies any stored session once. Later calls are no-ops.
func (s *Service) Start(ctx context.Context) {
	s.mutex.Lock()
	if s.started {
		s.mutex.Unlock()
		return
	}
	s.started = true
	s.mutex.Unlock()

	defer close(s.ready)

	if !s.backend.Available() {
		s.logger.Info("[SESSION] Host unavailable, starting signed out")
		s.transition(Unauthenticated, models.LoggedOut(), "")
		return
	}

	resp, err := s.backend.VerifySession(ctx)
	switch {
	case err != nil:
		s.logger.Warn("[SESSION] verify_session failed: %v", err)
		s.transition(Unauthenticated, models.LoggedOut(), "")
	case resp.Success && resp.Data != nil && resp.Data.Complete():
		s.logger.Info("[SESSION] Restored session for %s", resp.Data.EmailOrEmpty())
		s.transition(Authenticated, resp.Data.Clone(), "")
	default:
		if !resp.Success {
			s.logger.Info("[SESSION] No stored session: %s", resp.ErrorText("not logged in"))
		}
		s.transition(Unauthenticated, models.LoggedOut(), "")
	}
}

// Login authenticates with the backend. It is only valid while
// Unauthenticated.
func (s *Service) Login(ctx context.Context, email, password string) error {
	if err := s.begin(Unauthenticated); err != nil {
		return err
	}
	defer s.end()

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("[SESSION] login transport error: %v", err)
		s.transition(Unauthenticated, models.LoggedOut(), ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	if !resp.Success || resp.Data == nil || !resp.Data.Complete() {
		var loginErr error = ErrInvalidCredentials
		if resp.Error != nil && *resp.Error != "" {
			loginErr = &models.BackendError{Message: *resp.Error}
		}
		s.logger.Info("[SESSION] Login rejected: %v", loginErr)
		s.transition(Unauthenticated, models.LoggedOut(), loginErr.Error())
		return loginErr
	}

	s.logger.Info("[SESSION] Logged in as %s", resp.Data.EmailOrEmpty())
	s.transition(Authenticated, resp.Data.Clone(), "")
	return nil
}

// Logout ends the session. Any completed backend call clears local state;
// a transport failure leaves the session untouched.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.begin(Authenticated); err != nil {
		return err
	}
	defer s.end()

	resp, err := s.backend.Logout(ctx)
	if err != nil {
		s.logger.Error("[SESSION] logout transport error: %v", err)
		s.setError(ErrLogoutFailed.Error())
		return ErrLogoutFailed
	}
	if !resp.Success {
		s.logger.Warn("[SESSION] Backend reported logout failure: %s", resp.ErrorText("unknown"))
	}

	s.logger.Info("[SESSION] Logged out")
	s.transition(Unauthenticated, models.LoggedOut(), "")
	return nil
}

// Licenses returns the licences of the signed-in account.
func (s *Service) Licenses(ctx context.Context) ([]models.License, error) {
	if s.Snapshot().State != Authenticated {
		return nil, ErrInvalidTransition
	}

	resp, err := s.backend.GetLicenses(ctx)
	if err != nil {
		s.logger.Error("[SESSION] get_licencias transport error: %v", err)
		return nil, fmt.Errorf("get licences: %w", err)
	}
	if !resp.Success {
		return nil, &models.BackendError{Message: resp.ErrorText("failed to load licences")}
	}
	return resp.DataOr(nil), nil
}

// begin checks the required state and marks an operation in flight.
func (s *Service) begin(required State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case s.state == Verifying:
		return ErrNotReady
	case s.busy:
		return ErrBusy
	case s.state != required:
		return ErrInvalidTransition
	}
	s.busy = true
	return nil
}

func (s *Service) end() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.busy = false
}

func (s *Service) setError(text string) {
	s.mutex.Lock()
	s.lastErr = text
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mutex.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// transition replaces state and session together.
func (s *Service) transition(state State, session models.SessionState, errText string) {
	if state == Unauthenticated {
		session = models.LoggedOut()
	}

	s.mutex.Lock()
	s.state = state
	s.session = session
	s.lastErr = errText
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mutex.Unlock()

	if fn != nil {
		fn(snap)
	}
}
