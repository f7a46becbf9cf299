package core

import (
	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	MemoCount      int    `json:"memo_count"`
	CategoryCount  int    `json:"category_count"`
	ActiveCategory string `json:"active_category"`
	Language       string `json:"language"`
	StoreType      string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storeType := "store"
	if comp, ok := m.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return ManagerState{
		MemoCount:      len(m.coll.Memos),
		CategoryCount:  len(m.coll.Categories),
		ActiveCategory: m.active,
		Language:       m.settings.Language,
		StoreType:      storeType,
	}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "manager"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
