package gateway

import (
	"net/http"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RequestClass decides which caching strategy a request gets.
type RequestClass int

const (
	// ClassNavigation covers page loads and anything not matched below.
	ClassNavigation RequestClass = iota
	// ClassStatic covers styles, scripts, fonts and images.
	ClassStatic
	// ClassAPI covers data requests against the memo API.
	ClassAPI
)

func (c RequestClass) String() string {
	switch c {
	case ClassStatic:
		return "static"
	case ClassAPI:
		return "api"
	default:
		return "navigation"
	}
}

// staticDests are the resource destinations treated as static assets. The
// destination hint comes from the Sec-Fetch-Dest request header when the
// client sends one.
var staticDests = map[string]bool{
	"style":  true,
	"script": true,
	"font":   true,
	"image":  true,
}

// staticPatterns classify by URL path when no destination hint is present.
var staticPatterns = []string{
	"**/*.css",
	"**/*.js",
	"**/*.mjs",
	"**/*.woff",
	"**/*.woff2",
	"**/*.ttf",
	"**/*.png",
	"**/*.jpg",
	"**/*.jpeg",
	"**/*.gif",
	"**/*.svg",
	"**/*.ico",
	"**/*.webp",
	"**/manifest.json",
}

// Classify maps a request onto a caching strategy. API paths win over
// everything else; asset classification falls back from the fetch
// destination header to extension patterns.
func Classify(r *http.Request) RequestClass {
	if strings.Contains(r.URL.Path, "/api/") {
		return ClassAPI
	}
	if staticDests[r.Header.Get("Sec-Fetch-Dest")] {
		return ClassStatic
	}
	if isStaticPath(r.URL.Path) {
		return ClassStatic
	}
	return ClassNavigation
}

// isImageRequest reports whether a static request is for an image, which
// gets a placeholder fallback instead of a bare error when offline.
func isImageRequest(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Dest") == "image" {
		return true
	}
	switch strings.ToLower(path.Ext(r.URL.Path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp":
		return true
	}
	return false
}

func isStaticPath(p string) bool {
	clean := strings.TrimPrefix(p, "/")
	for _, pattern := range staticPatterns {
		if ok, _ := doublestar.Match(pattern, clean); ok {
			return true
		}
	}
	return false
}
