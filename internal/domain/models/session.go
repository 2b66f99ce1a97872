package models

// SessionState mirrors the authentication state reported by the backend.
// IsLoggedIn is only meaningful together with Token and Email.
type SessionState struct {
	Token        *string `json:"token"`
	RefreshToken *string `json:"refresh_token"`
	Email        *string `json:"email"`
	IsLoggedIn   bool    `json:"is_logged_in"`
}

// LoggedOut returns the canonical empty session.
func LoggedOut() SessionState {
	return SessionState{}
}

// Complete reports whether the state is a fully populated logged-in payload.
func (s SessionState) Complete() bool {
	return s.IsLoggedIn &&
		s.Token != nil && *s.Token != "" &&
		s.Email != nil && *s.Email != ""
}

// EmailOrEmpty returns the e-mail or "" when absent.
func (s SessionState) EmailOrEmpty() string {
	if s.Email == nil {
		return ""
	}
	return *s.Email
}

// Clone returns a deep copy so callers cannot mutate the owner's pointers.
func (s SessionState) Clone() SessionState {
	return SessionState{
		Token:        cloneString(s.Token),
		RefreshToken: cloneString(s.RefreshToken),
		Email:        cloneString(s.Email),
		IsLoggedIn:   s.IsLoggedIn,
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// License is a product licence of the logged-in account.
type License struct {
	ID             string  `json:"_id"`
	ProductType    string  `json:"tipoProducto"`
	MaxConnections int     `json:"maximoConexiones"`
	ExpiresAt      string  `json:"fechaVencimiento"`
	Delegated      bool    `json:"delegado"`
	Configuration  *string `json:"configuracion"`
	State          string  `json:"state"`
}
