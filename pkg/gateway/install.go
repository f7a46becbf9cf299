package gateway

import (
	"net/http"
	"sync"
	"time"
)

// ClientProfile describes how the client is running the app.
type ClientProfile string

const (
	// ProfileStandalone means the app window runs detached from a browser.
	ProfileStandalone ClientProfile = "standalone"
	// ProfileInstalled means the app is installed but opened in a tab.
	ProfileInstalled ClientProfile = "installed"
	// ProfileBrowser means a plain browser tab with no installation.
	ProfileBrowser ClientProfile = "browser"
)

// displayModeHeader carries the client's self-reported display mode.
const displayModeHeader = "X-ClipMemo-Display"

// ClassifyClient derives the profile from a request. The decision lives in
// this one function so the classification cannot drift between call sites.
func ClassifyClient(r *http.Request) ClientProfile {
	switch r.Header.Get(displayModeHeader) {
	case "standalone":
		return ProfileStandalone
	case "installed":
		return ProfileInstalled
	default:
		return ProfileBrowser
	}
}

// PromptCoordinator holds the one-shot install capability. An offer becomes
// available once, is consumed exactly once, and is gone after either use
// or expiry. Standalone and installed clients never see an offer.
type PromptCoordinator struct {
	ttl time.Duration

	mu        sync.Mutex
	available bool
	offeredAt time.Time
	dismissed bool
}

// NewPromptCoordinator builds a coordinator whose offers expire after ttl.
// A non-positive ttl means offers never expire on their own.
func NewPromptCoordinator(ttl time.Duration) *PromptCoordinator {
	return &PromptCoordinator{ttl: ttl}
}

// Offer arms the install prompt for browser-profile clients. Re-offering
// replaces any previous unconsumed offer. Dismissal is remembered and
// permanently suppresses further offers.
func (p *PromptCoordinator) Offer(profile ClientProfile) bool {
	if profile != ProfileBrowser {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dismissed {
		return false
	}
	p.available = true
	p.offeredAt = time.Now()
	return true
}

// Available reports whether an unexpired offer is waiting.
func (p *PromptCoordinator) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availableLocked()
}

// Consume takes the offer. The second and later calls fail: the underlying
// capability is single use.
func (p *PromptCoordinator) Consume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.availableLocked() {
		return false
	}
	p.available = false
	return true
}

// Dismiss drops the current offer and suppresses future ones.
func (p *PromptCoordinator) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = false
	p.dismissed = true
}

func (p *PromptCoordinator) availableLocked() bool {
	if !p.available {
		return false
	}
	if p.ttl > 0 && time.Since(p.offeredAt) > p.ttl {
		p.available = false
		return false
	}
	return true
}
