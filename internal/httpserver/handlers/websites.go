package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/httpserver/deps"
	"github.com/webspot/webspot/internal/store"
)

// ListWebsites returns the in-memory snapshot for the active session mode.
func ListWebsites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Websites.List())
	}
}

// AddWebsite validates and persists a new record through the router.
func AddWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var nw domain.NewWebsite
		if !readJSON(w, r, &nw) {
			return
		}
		if nw.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		website, err := d.Websites.Add(r.Context(), nw)
		if err != nil {
			if errors.Is(err, store.ErrNotAuthenticated) {
				writeError(w, http.StatusUnauthorized, "you need to be logged in to add websites")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid url")
			return
		}

		writeJSON(w, http.StatusCreated, website)
	}
}

// UpdateWebsite merges a partial patch into a record.
func UpdateWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch domain.Patch
		if !readJSON(w, r, &patch) {
			return
		}

		if err := d.Websites.Update(r.Context(), id, patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid url")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveWebsite deletes a record. Removal is optimistic: the record
// leaves the in-memory list immediately.
func RemoveWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Websites.Remove(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to remove website")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleFavorite flips a record's favorite flag.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Websites.ToggleFavorite(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to toggle favorite")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
