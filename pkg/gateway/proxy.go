package gateway

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ProxyFetcher resolves requests against a remote origin. No request
// timeout is applied: a slow network is still the network, and hanging
// requests surface as context cancellation from the client side.
type ProxyFetcher struct {
	origin *url.URL
	client *http.Client
}

// NewProxyFetcher builds a fetcher against the given origin URL.
func NewProxyFetcher(origin string) (*ProxyFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream origin: %w", err)
	}
	return &ProxyFetcher{
		origin: u,
		client: &http.Client{},
	}, nil
}

// Fetch forwards the request to the origin and captures the response.
func (p *ProxyFetcher) Fetch(r *http.Request) (*CachedResponse, error) {
	target := *r.URL
	target.Scheme = p.origin.Scheme
	target.Host = p.origin.Host

	out, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	out.Header = r.Header.Clone()

	resp, err := p.client.Do(out)
	if err != nil {
		return nil, fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return &CachedResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}
