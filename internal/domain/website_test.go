package domain

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https url", url: "https://example.com", wantErr: false},
		{name: "http url with path", url: "http://example.com/some/page", wantErr: false},
		{name: "url with port", url: "https://example.com:8443", wantErr: false},
		{name: "bare word", url: "not-a-url", wantErr: true},
		{name: "missing scheme", url: "example.com", wantErr: true},
		{name: "scheme only", url: "https://", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "relative path", url: "/relative/path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestGuestID(t *testing.T) {
	id := GuestID()
	if !strings.HasPrefix(id, GuestIDPrefix) {
		t.Errorf("GuestID() = %q, want %q prefix", id, GuestIDPrefix)
	}
	if !IsGuestID(id) {
		t.Errorf("IsGuestID(%q) = false, want true", id)
	}
}

func TestGuestIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GuestID()
		if seen[id] {
			t.Fatalf("GuestID() produced duplicate %q after %d ids", id, i)
		}
		seen[id] = true
	}
}

func TestIsGuestID(t *testing.T) {
	if IsGuestID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("IsGuestID() = true for UUID, want false")
	}
	if IsGuestID("guest_") {
		t.Error("IsGuestID() = true for bare prefix, want false")
	}
}

func TestPatchApply(t *testing.T) {
	name := "Renamed"
	fav := true

	w := &Website{
		ID:         "guest_1_000001",
		Name:       "Example",
		URL:        "https://example.com",
		IconURL:    "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		IsFavorite: false,
		CreatedAt:  1700000000000,
	}

	Patch{Name: &name, IsFavorite: &fav}.Apply(w)

	if w.Name != "Renamed" {
		t.Errorf("Apply() name = %q, want %q", w.Name, "Renamed")
	}
	if !w.IsFavorite {
		t.Error("Apply() is_favorite = false, want true")
	}
	// Untouched fields keep their values.
	if w.URL != "https://example.com" {
		t.Errorf("Apply() url changed to %q", w.URL)
	}
	if w.ID != "guest_1_000001" || w.CreatedAt != 1700000000000 {
		t.Error("Apply() mutated immutable fields")
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("Empty() = false for zero patch, want true")
	}
	desc := ""
	if (Patch{Description: &desc}).Empty() {
		t.Error("Empty() = true for patch clearing description, want false")
	}
}
