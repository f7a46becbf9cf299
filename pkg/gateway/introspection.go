package gateway

import (
	"github.com/aretw0/introspection"
)

// ControllerState is the controller's diagnostic snapshot.
type ControllerState struct {
	Installed bool     `json:"installed"`
	Activated bool     `json:"activated"`
	Caches    []string `json:"caches"`
	Listen    string   `json:"listen"`
	Mode      string   `json:"mode"`
}

// State exports the controller's current state for diagnostics.
func (c *Controller) State() any {
	c.mu.Lock()
	installed, activated := c.installed, c.activated
	c.mu.Unlock()

	names, _ := c.caches.Names()
	mode := "local"
	if c.config.Upstream != "" {
		mode = "proxy"
	}
	return ControllerState{
		Installed: installed,
		Activated: activated,
		Caches:    names,
		Listen:    c.config.Listen,
		Mode:      mode,
	}
}

// ComponentType identifies the controller in diagnostic output.
func (c *Controller) ComponentType() string {
	return "cache-controller"
}

var (
	_ introspection.Introspectable = (*Controller)(nil)
	_ introspection.Component      = (*Controller)(nil)
)
