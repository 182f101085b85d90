package http

import (
	"net/http"
	"strings"
)

// PublicBaseURL returns the URL clients use to reach the dashboard. A
// configured URL wins; otherwise it is rebuilt from proxy headers and the
// request itself.
func PublicBaseURL(r *http.Request, configuredURL string) string {
	if configuredURL != "" {
		return strings.TrimSuffix(configuredURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	// Priority: Alt-Used > X-Forwarded-Host > Host
	host := r.Host
	if altUsed := r.Header.Get("Alt-Used"); altUsed != "" {
		host = altUsed
	} else if forwarded := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); forwarded != "" {
		host = forwarded
	}
	if host == "" {
		host = "localhost"
	}

	return scheme + "://" + host
}

// firstHeaderValue returns the original client value of a comma separated
// proxy header
func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
