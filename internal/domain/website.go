package domain

import (
	"fmt"
	"math/rand"
	"net/url"
	"time"
)

// Website represents a saved website record.
// Records live in exactly one backend (guest or remote) for their whole
// lifetime and are never migrated between backends.
type Website struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the unique identifier within a backend.
	// Remote records carry a server-assigned UUID, guest records a
	// locally generated "guest_" prefixed id.
	ID string `json:"id"`

	// ─────────────────────────────
	// User-supplied content
	// ─────────────────────────────

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// URL is the absolute URL of the website.
	// Validated (scheme + host) before acceptance.
	URL string `json:"url"`

	// IconURL points to a favicon image, either derived from URL
	// via ResolveFavicon or supplied by the user.
	IconURL string `json:"icon_url"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// ─────────────────────────────
	// Flags & metadata
	// ─────────────────────────────

	// IsFavorite marks the record as a favorite. Defaults to false.
	IsFavorite bool `json:"is_favorite"`

	// CreatedAt is the creation time in unix milliseconds.
	// Immutable; used as the default ascending ordering key.
	CreatedAt int64 `json:"created_at"`
}

// NewWebsite is the caller-supplied portion of a record before the
// backend assigns ID and CreatedAt.
type NewWebsite struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	IconURL     string `json:"icon_url"`
	Description string `json:"description,omitempty"`
}

// Patch carries the mutable fields of a partial update.
// Nil pointers mean "leave unchanged".
type Patch struct {
	Name        *string `json:"name,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
}

// Empty reports whether the patch touches no field.
func (p Patch) Empty() bool {
	return p.Name == nil && p.URL == nil && p.Description == nil && p.IsFavorite == nil
}

// Apply merges the patch into w. ID and CreatedAt are never touched.
func (p Patch) Apply(w *Website) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.URL != nil {
		w.URL = *p.URL
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.IsFavorite != nil {
		w.IsFavorite = *p.IsFavorite
	}
}

// ValidateURL checks that raw parses as an absolute URL with a scheme
// and a host. Records are rejected before any backend call otherwise.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q: scheme and host required", raw)
	}
	return nil
}

// GuestIDPrefix namespaces guest-local ids so they can never collide
// with server-assigned UUIDs.
const GuestIDPrefix = "guest_"

// GuestID generates a collision-resistant local record id:
// guest_<unix-millis>_<random suffix>.
func GuestID() string {
	return fmt.Sprintf("%s%d_%06d", GuestIDPrefix, time.Now().UnixMilli(), rand.Intn(1000000))
}

// IsGuestID reports whether id was generated locally for a guest session.
func IsGuestID(id string) bool {
	return len(id) > len(GuestIDPrefix) && id[:len(GuestIDPrefix)] == GuestIDPrefix
}
