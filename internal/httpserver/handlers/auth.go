package handlers

import (
	"errors"
	"net/http"

	"github.com/webspot/webspot/internal/httpserver/deps"
	"github.com/webspot/webspot/internal/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest,omitempty"`
	Mode  string `json:"mode"`
}

// SignUp creates an account. The client signs in afterwards.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !readJSON(w, r, &req) {
			return
		}

		if err := d.Sessions.SignUp(r.Context(), req.Email, req.Password); err != nil {
			if errors.Is(err, session.ErrUserExists) {
				writeError(w, http.StatusConflict, "user already exists")
				return
			}
			if errors.Is(err, session.ErrInvalidCredentials) {
				writeError(w, http.StatusBadRequest, "email and password are required")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to sign up")
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// SignIn authenticates and switches the session to authenticated mode.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !readJSON(w, r, &req) {
			return
		}

		identity, err := d.Sessions.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to sign in")
			return
		}

		writeJSON(w, http.StatusOK, identityResponse{
			ID:    identity.ID,
			Email: identity.Email,
			Mode:  d.Sessions.Mode().String(),
		})
	}
}

// SignInAsGuest starts a guest session backed by local storage only.
func SignInAsGuest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := d.Sessions.SignInAsGuest(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to start guest session")
			return
		}

		writeJSON(w, http.StatusOK, identityResponse{
			ID:    identity.ID,
			Guest: true,
			Mode:  d.Sessions.Mode().String(),
		})
	}
}

// SignOut ends the current session. Guest data is discarded.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.SignOut(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to sign out")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
