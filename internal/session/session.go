package session

import "errors"

// Mode is the current session mode. Every storage decision is made
// against the mode active at call time, never a cached copy.
type Mode int

const (
	// ModeUnauthenticated means no session of any kind.
	ModeUnauthenticated Mode = iota

	// ModeGuest means a locally simulated session. Data lives only in
	// the local key-value store.
	ModeGuest

	// ModeAuthenticated means a signed-in remote session.
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModeGuest:
		return "guest"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Identity describes who the current session belongs to.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Guest bool   `json:"guest,omitempty"`
}

var (
	// ErrSessionExpired is returned when a session token no longer
	// resolves to a live session.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned on a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserExists is returned when signing up an existing email.
	ErrUserExists = errors.New("user already exists")
)
