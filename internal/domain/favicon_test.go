package domain

import (
	"strings"
	"testing"
)

func TestResolveFavicon(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "simple https url",
			url:  "https://example.com",
			want: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		},
		{
			name: "url with path and query",
			url:  "https://github.com/some/repo?tab=readme",
			want: "https://www.google.com/s2/favicons?domain=github.com&sz=64",
		},
		{
			name: "url with port",
			url:  "http://localhost:8080/admin",
			want: "https://www.google.com/s2/favicons?domain=localhost&sz=64",
		},
		{
			name: "subdomain preserved",
			url:  "https://docs.example.org/guide",
			want: "https://www.google.com/s2/favicons?domain=docs.example.org&sz=64",
		},
		{
			name: "not a url falls back",
			url:  "not-a-url",
			want: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		},
		{
			name: "empty string falls back",
			url:  "",
			want: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		},
		{
			name: "garbage falls back",
			url:  "::::::",
			want: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFavicon(tt.url)
			if got != tt.want {
				t.Errorf("ResolveFavicon(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveFaviconDeterministic(t *testing.T) {
	first := ResolveFavicon("https://example.com/a")
	second := ResolveFavicon("https://example.com/b")
	if first != second {
		t.Errorf("ResolveFavicon() not deterministic per hostname: %q vs %q", first, second)
	}
}

func TestResolveFaviconContainsHostname(t *testing.T) {
	urls := []string{
		"https://news.ycombinator.com",
		"http://wiki.internal.lan:3000/page",
		"https://a.b.c.d.example.net",
	}
	for _, u := range urls {
		got := ResolveFavicon(u)
		if !strings.Contains(got, hostOf(t, u)) {
			t.Errorf("ResolveFavicon(%q) = %q, missing hostname", u, got)
		}
	}
}

func hostOf(t *testing.T, raw string) string {
	t.Helper()
	switch raw {
	case "https://news.ycombinator.com":
		return "news.ycombinator.com"
	case "http://wiki.internal.lan:3000/page":
		return "wiki.internal.lan"
	case "https://a.b.c.d.example.net":
		return "a.b.c.d.example.net"
	}
	t.Fatalf("unknown url %q", raw)
	return ""
}
