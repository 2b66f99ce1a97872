package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isiprint/internal/domain/models"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/testutil"
)

func loggedIn(email string) models.SessionState {
	token, refresh := "tok-123", "ref-456"
	return models.SessionState{Token: &token, RefreshToken: &refresh, Email: &email, IsLoggedIn: true}
}

func newStarted(t *testing.T, backend *testutil.FakeBackend) *Service {
	t.Helper()
	s := NewService(backend, logger.Nop())
	s.Start(context.Background())
	require.NoError(t, s.WaitReady(context.Background()))
	return s
}

func assertLoggedOut(t *testing.T, snap Snapshot) {
	t.Helper()
	assert.Equal(t, Unauthenticated, snap.State)
	assert.Nil(t, snap.Session.Token)
	assert.Nil(t, snap.Session.RefreshToken)
	assert.Nil(t, snap.Session.Email)
	assert.False(t, snap.Session.IsLoggedIn)
}

func TestStart_NoHostSkipsBridge(t *testing.T) {
	backend := &testutil.FakeBackend{Unavailable: true}
	s := newStarted(t, backend)

	assertLoggedOut(t, s.Snapshot())
	assert.Zero(t, backend.TotalCalls())
}

func TestStart_VerifyOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		verify func(context.Context) (models.CommandResponse[models.SessionState], error)
		want   State
	}{
		{
			name: "restored session",
			verify: func(context.Context) (models.CommandResponse[models.SessionState], error) {
				return testutil.OK(loggedIn("ana@example.com")), nil
			},
			want: Authenticated,
		},
		{
			name: "logged out payload",
			verify: func(context.Context) (models.CommandResponse[models.SessionState], error) {
				return testutil.OK(models.LoggedOut()), nil
			},
			want: Unauthenticated,
		},
		{
			name: "logged in flag without token",
			verify: func(context.Context) (models.CommandResponse[models.SessionState], error) {
				email := "x@y.z"
				return testutil.OK(models.SessionState{Email: &email, IsLoggedIn: true}), nil
			},
			want: Unauthenticated,
		},
		{
			name: "backend failure",
			verify: func(context.Context) (models.CommandResponse[models.SessionState], error) {
				return testutil.Fail[models.SessionState]("expired"), nil
			},
			want: Unauthenticated,
		},
		{
			name: "transport error",
			verify: func(context.Context) (models.CommandResponse[models.SessionState], error) {
				return models.CommandResponse[models.SessionState]{}, errors.New("boom")
			},
			want: Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.FakeBackend{VerifySessionFn: tt.verify}
			s := newStarted(t, backend)

			snap := s.Snapshot()
			assert.Equal(t, tt.want, snap.State)
			if tt.want == Unauthenticated {
				assertLoggedOut(t, snap)
			} else {
				assert.Equal(t, "ana@example.com", snap.Session.EmailOrEmpty())
			}
			assert.Equal(t, 1, backend.Calls("verify_session"))
		})
	}
}

func TestStart_RunsOnce(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(models.LoggedOut()), nil
		},
	}
	s := newStarted(t, backend)
	s.Start(context.Background())
	assert.Equal(t, 1, backend.Calls("verify_session"))
}

func TestWaitReady_BlocksUntilVerified(t *testing.T) {
	release := make(chan struct{})
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			<-release
			return testutil.OK(models.LoggedOut()), nil
		},
	}
	s := NewService(backend, logger.Nop())
	go s.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitReady(ctx), context.DeadlineExceeded)
	assert.Equal(t, Verifying, s.Snapshot().State)
	assert.ErrorIs(t, s.Login(context.Background(), "a", "b"), ErrNotReady)

	close(release)
	require.NoError(t, s.WaitReady(context.Background()))
	assert.Equal(t, Unauthenticated, s.Snapshot().State)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		login     func(context.Context, string, string) (models.CommandResponse[models.SessionState], error)
		wantState State
		wantErr   string
	}{
		{
			name: "success",
			login: func(_ context.Context, email, _ string) (models.CommandResponse[models.SessionState], error) {
				return testutil.OK(loggedIn(email)), nil
			},
			wantState: Authenticated,
		},
		{
			name: "backend text verbatim",
			login: func(context.Context, string, string) (models.CommandResponse[models.SessionState], error) {
				return testutil.Fail[models.SessionState]("Usuario bloqueado"), nil
			},
			wantState: Unauthenticated,
			wantErr:   "Usuario bloqueado",
		},
		{
			name: "backend without text",
			login: func(context.Context, string, string) (models.CommandResponse[models.SessionState], error) {
				return testutil.Fail[models.SessionState](""), nil
			},
			wantState: Unauthenticated,
			wantErr:   ErrInvalidCredentials.Error(),
		},
		{
			name: "success flag without data",
			login: func(context.Context, string, string) (models.CommandResponse[models.SessionState], error) {
				return models.CommandResponse[models.SessionState]{Success: true}, nil
			},
			wantState: Unauthenticated,
			wantErr:   ErrInvalidCredentials.Error(),
		},
		{
			name: "transport failure",
			login: func(context.Context, string, string) (models.CommandResponse[models.SessionState], error) {
				return models.CommandResponse[models.SessionState]{}, errors.New("socket closed")
			},
			wantState: Unauthenticated,
			wantErr:   ErrLoginFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.FakeBackend{
				VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
					return testutil.OK(models.LoggedOut()), nil
				},
				LoginFn: tt.login,
			}
			s := newStarted(t, backend)

			err := s.Login(context.Background(), "ana@example.com", "secret")
			snap := s.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ana@example.com", snap.Session.EmailOrEmpty())
				assert.Empty(t, snap.Error)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, tt.wantErr, snap.Error)
			assertLoggedOut(t, snap)
		})
	}
}

func TestLogin_TransportAndBackendErrorsDiffer(t *testing.T) {
	assert.NotEqual(t, ErrLoginFailed.Error(), ErrInvalidCredentials.Error())
}

func TestLogin_OnlyFromUnauthenticated(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(loggedIn("ana@example.com")), nil
		},
	}
	s := newStarted(t, backend)

	assert.ErrorIs(t, s.Login(context.Background(), "a", "b"), ErrInvalidTransition)
	assert.Zero(t, backend.Calls("login"))
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name      string
		logout    func(context.Context) (models.CommandResponse[string], error)
		wantState State
		wantErr   error
	}{
		{
			name: "success",
			logout: func(context.Context) (models.CommandResponse[string], error) {
				return testutil.OK("bye"), nil
			},
			wantState: Unauthenticated,
		},
		{
			name: "backend failure still clears",
			logout: func(context.Context) (models.CommandResponse[string], error) {
				return testutil.Fail[string]("token unknown"), nil
			},
			wantState: Unauthenticated,
		},
		{
			name: "transport failure keeps session",
			logout: func(context.Context) (models.CommandResponse[string], error) {
				return models.CommandResponse[string]{}, errors.New("timeout")
			},
			wantState: Authenticated,
			wantErr:   ErrLogoutFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.FakeBackend{
				VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
					return testutil.OK(loggedIn("ana@example.com")), nil
				},
				LogoutFn: tt.logout,
			}
			s := newStarted(t, backend)

			err := s.Logout(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			snap := s.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			if tt.wantState == Unauthenticated {
				assertLoggedOut(t, snap)
			} else {
				assert.Equal(t, "ana@example.com", snap.Session.EmailOrEmpty())
			}
		})
	}
}

func TestLogout_RestartStaysSignedOut(t *testing.T) {
	signedOut := false
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			if signedOut {
				return testutil.OK(models.LoggedOut()), nil
			}
			return testutil.OK(loggedIn("ana@example.com")), nil
		},
		LogoutFn: func(context.Context) (models.CommandResponse[string], error) {
			signedOut = true
			return testutil.OK("bye"), nil
		},
	}

	s := newStarted(t, backend)
	require.Equal(t, Authenticated, s.Snapshot().State)
	require.NoError(t, s.Logout(context.Background()))
	assertLoggedOut(t, s.Snapshot())

	restarted := newStarted(t, backend)
	assertLoggedOut(t, restarted.Snapshot())
}

func TestLogout_OnlyFromAuthenticated(t *testing.T) {
	backend := &testutil.FakeBackend{Unavailable: true}
	s := newStarted(t, backend)
	assert.ErrorIs(t, s.Logout(context.Background()), ErrInvalidTransition)
}

func TestOnChange_ObservesTransitions(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(models.LoggedOut()), nil
		},
		LoginFn: func(_ context.Context, email, _ string) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(loggedIn(email)), nil
		},
		LogoutFn: func(context.Context) (models.CommandResponse[string], error) {
			return testutil.OK(""), nil
		},
	}
	s := NewService(backend, logger.Nop())

	var states []State
	s.SetOnChange(func(snap Snapshot) {
		// The logged-in flag never appears without token and email.
		if snap.Session.IsLoggedIn {
			assert.True(t, snap.Session.Complete())
		}
		states = append(states, snap.State)
	})

	s.Start(context.Background())
	require.NoError(t, s.Login(context.Background(), "ana@example.com", "pw"))
	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, []State{Unauthenticated, Authenticated, Unauthenticated}, states)
}

func TestSnapshot_IsCopy(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(loggedIn("ana@example.com")), nil
		},
	}
	s := newStarted(t, backend)

	snap := s.Snapshot()
	*snap.Session.Email = "mallory@example.com"
	assert.Equal(t, "ana@example.com", s.Snapshot().Session.EmailOrEmpty())
}

func TestLicenses(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(loggedIn("ana@example.com")), nil
		},
		GetLicensesFn: func(context.Context) (models.CommandResponse[[]models.License], error) {
			return testutil.OK([]models.License{{ID: "l1", ProductType: "isiprint", MaxConnections: 2, State: "active"}}), nil
		},
	}
	s := newStarted(t, backend)

	licenses, err := s.Licenses(context.Background())
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "isiprint", licenses[0].ProductType)

	backend.GetLicensesFn = func(context.Context) (models.CommandResponse[[]models.License], error) {
		return testutil.Fail[[]models.License]("Licencia vencida"), nil
	}
	_, err = s.Licenses(context.Background())
	var be *models.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Licencia vencida", be.Message)
}

func TestLicenses_SignedOut(t *testing.T) {
	backend := &testutil.FakeBackend{
		VerifySessionFn: func(context.Context) (models.CommandResponse[models.SessionState], error) {
			return testutil.OK(models.LoggedOut()), nil
		},
	}
	s := newStarted(t, backend)

	_, err := s.Licenses(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, backend.Calls("get_licencias"))
}
