package gateway

import (
	"fmt"
	"net/http"
	"time"
)

// offlinePage is served for navigations when neither the network nor the
// dynamic cache can satisfy the request and no shell offline page was
// precached.
const offlinePage = `<!doctype html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Clip Memo</title>
</head>
<body>
<main style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
<h1>오프라인</h1>
<p>네트워크에 연결되어 있지 않습니다. 연결이 복구되면 다시 시도하세요.</p>
<p>You are offline. Try again once the connection is back.</p>
</main>
</body>
</html>
`

// fallbackIconPNG is a 1x1 transparent PNG used for images that cannot be
// fetched or found in any cache.
var fallbackIconPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// offlineResponse synthesizes the navigation fallback.
func offlineResponse() *CachedResponse {
	return &CachedResponse{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{
			"Content-Type":  []string{"text/html; charset=utf-8"},
			"Cache-Control": []string{"no-store"},
		},
		Body:     []byte(offlinePage),
		StoredAt: time.Now(),
	}
}

// fallbackIconResponse synthesizes the image placeholder.
func fallbackIconResponse() *CachedResponse {
	return &CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type":  []string{"image/png"},
			"Cache-Control": []string{"no-store"},
		},
		Body:     fallbackIconPNG,
		StoredAt: time.Now(),
	}
}

// notFoundResponse synthesizes a plain 404 for unfetchable non-image assets.
func notFoundResponse(path string) *CachedResponse {
	return &CachedResponse{
		Status: http.StatusNotFound,
		Header: http.Header{
			"Content-Type": []string{"text/plain; charset=utf-8"},
		},
		Body:     []byte(fmt.Sprintf("not available offline: %s\n", path)),
		StoredAt: time.Now(),
	}
}
