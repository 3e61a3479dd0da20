package domain

import (
	"fmt"
	"net/url"
)

const (
	faviconService = "https://www.google.com/s2/favicons?domain=%s&sz=64"

	// fallbackFaviconDomain keys the placeholder icon returned when a
	// URL cannot be parsed.
	fallbackFaviconDomain = "example.com"
)

// ResolveFavicon derives a display icon URL from a website URL.
// Pure and deterministic: a parseable URL maps to the favicon service
// keyed by its hostname, anything else maps to the fixed fallback icon.
// It never returns an error.
func ResolveFavicon(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return fmt.Sprintf(faviconService, fallbackFaviconDomain)
	}
	return fmt.Sprintf(faviconService, u.Hostname())
}
