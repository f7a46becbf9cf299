package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/clipmemo/pkg/gateway"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		path string
		dest string
		want gateway.RequestClass
	}{
		{"api path", "/api/memos", "", gateway.ClassAPI},
		{"nested api path", "/v1/api/search", "", gateway.ClassAPI},
		{"css by extension", "/static/app.css", "", gateway.ClassStatic},
		{"js by extension", "/static/app.js", "", gateway.ClassStatic},
		{"font by extension", "/fonts/main.woff2", "", gateway.ClassStatic},
		{"image by extension", "/icons/logo.png", "", gateway.ClassStatic},
		{"manifest", "/manifest.json", "", gateway.ClassStatic},
		{"style by dest header", "/themed", "style", gateway.ClassStatic},
		{"image by dest header", "/avatar", "image", gateway.ClassStatic},
		{"root navigation", "/", "", gateway.ClassNavigation},
		{"page navigation", "/settings", "", gateway.ClassNavigation},
		{"api wins over extension", "/api/export.json", "", gateway.ClassAPI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.dest != "" {
				req.Header.Set("Sec-Fetch-Dest", tc.dest)
			}
			if got := gateway.Classify(req); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
