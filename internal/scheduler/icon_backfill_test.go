package scheduler

import (
	"testing"
	"time"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/logger"
)

func TestIconBackfill_FillIcons(t *testing.T) {
	b := NewIconBackfill(nil, logger.Nop(), 24*time.Hour)

	websites := []*domain.Website{
		{
			ID:      "a",
			Name:    "has-icon",
			URL:     "https://has-icon.example.com",
			IconURL: "https://has-icon.example.com/icon.png",
		},
		{
			ID:   "b",
			Name: "missing-icon",
			URL:  "https://missing.example.com",
		},
		{
			ID:   "c",
			Name: "broken-url",
			URL:  "not-a-url",
		},
	}

	changed := b.fillIcons(websites)

	if len(changed) != 2 {
		t.Fatalf("fillIcons() changed %d records, want 2", len(changed))
	}

	// Existing icons are left alone.
	if websites[0].IconURL != "https://has-icon.example.com/icon.png" {
		t.Errorf("fillIcons() overwrote existing icon: %q", websites[0].IconURL)
	}

	// Missing icons derive from the record URL.
	want := "https://www.google.com/s2/favicons?domain=missing.example.com&sz=64"
	if websites[1].IconURL != want {
		t.Errorf("fillIcons() icon = %q, want %q", websites[1].IconURL, want)
	}

	// Unparseable URLs get the fallback icon rather than staying empty.
	fallback := "https://www.google.com/s2/favicons?domain=example.com&sz=64"
	if websites[2].IconURL != fallback {
		t.Errorf("fillIcons() icon = %q, want fallback %q", websites[2].IconURL, fallback)
	}
}

func TestIconBackfill_FillIconsNothingToDo(t *testing.T) {
	b := NewIconBackfill(nil, logger.Nop(), 24*time.Hour)

	websites := []*domain.Website{
		{ID: "a", URL: "https://a.example.com", IconURL: "https://a.example.com/i.png"},
	}

	if changed := b.fillIcons(websites); len(changed) != 0 {
		t.Errorf("fillIcons() changed %d records, want 0", len(changed))
	}
}
