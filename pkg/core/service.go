package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Manager handles the business logic for memos and categories.
//
// All operations validate first, then swap in a fully-built replacement
// collection, then persist. A validation failure changes nothing; a
// persistence failure keeps the in-memory change and reports a typed
// *StorageError so the caller can surface a retry affordance.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	coll     Collection
	active   string
	settings Settings
}

// NewManager loads the persisted collection from the store and returns a
// ready Manager. Missing or corrupt keys fall back to empty defaults, and
// any memo referencing a category that no longer exists is reassigned to
// the default bucket before first use.
func NewManager(ctx context.Context, store Store, logger *slog.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("manager requires a store")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:  store,
		logger: logger,
		active: CategoryAll,
	}
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Refresh re-reads the collection and settings from the store, normalizing
// invariants on the way in. Useful after a watch event reported an external
// write (last write wins; there is no merge).
func (m *Manager) Refresh(ctx context.Context) error {
	memos := LoadJSON(ctx, m.store, KeyItems, []Memo{})
	categories := LoadJSON(ctx, m.store, KeyCategories, DefaultCategories())
	settings := Settings{
		BannerClosed: LoadJSON(ctx, m.store, KeyBannerClosed, false),
		Language:     LoadJSON(ctx, m.store, KeyLanguage, LanguageKorean),
	}

	coll := normalize(Collection{Memos: memos, Categories: categories})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.coll = coll
	m.settings = settings
	if m.active != CategoryAll && !m.coll.HasCategory(m.active) {
		m.active = CategoryDefault
	}
	return nil
}

// normalize enforces the structural invariants of a loaded collection:
// the two reserved categories lead the set, duplicates are dropped, and
// every memo points at an existing category.
func normalize(c Collection) Collection {
	out := Collection{Categories: DefaultCategories()}
	seen := map[string]bool{CategoryAll: true, CategoryDefault: true}
	for _, name := range c.Categories {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out.Categories = append(out.Categories, name)
	}

	out.Memos = make([]Memo, 0, len(c.Memos))
	for _, memo := range c.Memos {
		if memo.Category == "" || memo.Category == CategoryAll || !seen[memo.Category] {
			memo.Category = CategoryDefault
		}
		out.Memos = append(out.Memos, memo)
	}
	return out
}

// Memos returns a copy of the memo list in storage order.
func (m *Manager) Memos() []Memo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Memo, len(m.coll.Memos))
	copy(out, m.coll.Memos)
	return out
}

// Categories returns a copy of the ordered category set.
func (m *Manager) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.coll.Categories))
	copy(out, m.coll.Categories)
	return out
}

// Collection returns a deep copy of the full collection.
func (m *Manager) Collection() Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coll.Clone()
}

// GetMemo retrieves a single memo by ID.
func (m *Manager) GetMemo(id string) (Memo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, memo := range m.coll.Memos {
		if memo.ID == id {
			return memo, nil
		}
	}
	return Memo{}, fmt.Errorf("memo %q: %w", id, ErrMemoNotFound)
}

// ActiveCategory returns the current filter tab.
func (m *Manager) ActiveCategory() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetActiveCategory switches the filter tab. The name must be the virtual
// "all" filter or an existing category.
func (m *Manager) SetActiveCategory(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name != CategoryAll && !m.coll.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrCategoryNotFound)
	}
	m.active = name
	return nil
}

// AddMemo creates a new memo from the partial input.
//
// Rejections (typed, nothing mutated):
//   - content longer than MaxContentLength
//   - serialized collection after the insert exceeding StorageBudget
//
// Empty title defaults to the placeholder; empty category defaults to the
// default bucket. The ID and creation timestamp are assigned here and are
// never reused or changed.
func (m *Manager) AddMemo(ctx context.Context, partial Memo) (Memo, error) {
	if err := validateContent(partial.Content); err != nil {
		return Memo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	memo := Memo{
		ID:        uuid.NewString(),
		Title:     partial.Title,
		Content:   partial.Content,
		Category:  partial.Category,
		CreatedAt: time.Now(),
	}
	if memo.Title == "" {
		memo.Title = DefaultTitle
	}
	if memo.Category == "" || memo.Category == CategoryAll {
		memo.Category = CategoryDefault
	}
	if !m.coll.HasCategory(memo.Category) {
		return Memo{}, fmt.Errorf("category %q: %w", memo.Category, ErrCategoryNotFound)
	}

	next := m.coll.Clone()
	next.Memos = append(next.Memos, memo)
	if err := checkBudget(next); err != nil {
		return Memo{}, err
	}

	m.coll = next
	return memo, m.persistLocked(ctx)
}

// EditMemo replaces the memo matching the input's ID. The creation timestamp
// of the stored memo is preserved; a missing ID is a reported error, not a
// silent no-op.
func (m *Manager) EditMemo(ctx context.Context, memo Memo) error {
	if err := validateContent(memo.Content); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if memo.Title == "" {
		memo.Title = DefaultTitle
	}
	if memo.Category == "" || memo.Category == CategoryAll {
		memo.Category = CategoryDefault
	}
	if !m.coll.HasCategory(memo.Category) {
		return fmt.Errorf("category %q: %w", memo.Category, ErrCategoryNotFound)
	}

	next := m.coll.Clone()
	found := false
	for i, existing := range next.Memos {
		if existing.ID == memo.ID {
			memo.CreatedAt = existing.CreatedAt
			next.Memos[i] = memo
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("memo %q: %w", memo.ID, ErrMemoNotFound)
	}

	m.coll = next
	return m.persistLocked(ctx)
}

// DeleteMemo removes the memo with the given ID. Deleting an absent memo is
// a no-op, so the operation is idempotent.
func (m *Manager) DeleteMemo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.coll.Clone()
	kept := next.Memos[:0]
	removed := false
	for _, memo := range next.Memos {
		if memo.ID == id {
			removed = true
			continue
		}
		kept = append(kept, memo)
	}
	if !removed {
		return nil
	}
	next.Memos = kept

	m.coll = next
	return m.persistLocked(ctx)
}

// DuplicateMemo clones an existing memo under a fresh ID with the copy
// suffix appended to its title, subject to the same storage budget as a
// plain add.
func (m *Manager) DuplicateMemo(ctx context.Context, id string) (Memo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var source *Memo
	for i := range m.coll.Memos {
		if m.coll.Memos[i].ID == id {
			source = &m.coll.Memos[i]
			break
		}
	}
	if source == nil {
		return Memo{}, fmt.Errorf("memo %q: %w", id, ErrMemoNotFound)
	}

	clone := *source
	clone.ID = uuid.NewString()
	clone.Title = source.Title + CopySuffix
	clone.CreatedAt = time.Now()

	next := m.coll.Clone()
	next.Memos = append(next.Memos, clone)
	if err := checkBudget(next); err != nil {
		return Memo{}, err
	}

	m.coll = next
	return clone, m.persistLocked(ctx)
}

// AddCategory appends a new user category. Matching is a case-sensitive
// exact comparison, so "Work" and "work" may coexist.
func (m *Manager) AddCategory(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("category name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.coll.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrDuplicateCategory)
	}

	next := m.coll.Clone()
	next.Categories = append(next.Categories, name)

	m.coll = next
	return m.persistLocked(ctx)
}

// DeleteCategory removes a user category. Its memos are reassigned to the
// default bucket rather than deleted, and the active filter falls back to
// the default bucket if it pointed at the removed name. Reserved categories
// are never deletable.
func (m *Manager) DeleteCategory(ctx context.Context, name string) error {
	if name == CategoryAll || name == CategoryDefault {
		return fmt.Errorf("category %q: %w", name, ErrReservedCategory)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.coll.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrCategoryNotFound)
	}

	next := m.coll.Clone()
	kept := next.Categories[:0]
	for _, existing := range next.Categories {
		if existing == name {
			continue
		}
		kept = append(kept, existing)
	}
	next.Categories = kept
	for i := range next.Memos {
		if next.Memos[i].Category == name {
			next.Memos[i].Category = CategoryDefault
		}
	}

	m.coll = next
	if m.active == name {
		m.active = CategoryDefault
	}
	return m.persistLocked(ctx)
}

// RenameCategory renames a user category and cascades the rename to every
// memo referencing it, plus the active filter. Renaming a reserved category
// or renaming onto an existing name fails.
func (m *Manager) RenameCategory(ctx context.Context, oldName, newName string) error {
	if oldName == CategoryAll || oldName == CategoryDefault {
		return fmt.Errorf("category %q: %w", oldName, ErrReservedCategory)
	}
	if newName == "" {
		return errors.New("category name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.coll.HasCategory(oldName) {
		return fmt.Errorf("category %q: %w", oldName, ErrCategoryNotFound)
	}
	if m.coll.HasCategory(newName) {
		return fmt.Errorf("category %q: %w", newName, ErrDuplicateCategory)
	}

	next := m.coll.Clone()
	for i, existing := range next.Categories {
		if existing == oldName {
			next.Categories[i] = newName
		}
	}
	for i := range next.Memos {
		if next.Memos[i].Category == oldName {
			next.Memos[i].Category = newName
		}
	}

	m.coll = next
	if m.active == oldName {
		m.active = newName
	}
	return m.persistLocked(ctx)
}

// Settings returns a copy of the per-vault flags.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetLanguage persists the UI language ("ko" or "en").
func (m *Manager) SetLanguage(ctx context.Context, lang string) error {
	if lang != LanguageKorean && lang != LanguageEnglish {
		return fmt.Errorf("language %q: %w", lang, ErrInvalidLanguage)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Language = lang
	return SaveJSON(ctx, m.store, KeyLanguage, lang)
}

// CloseBanner records that the install banner was dismissed.
func (m *Manager) CloseBanner(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.BannerClosed = true
	return SaveJSON(ctx, m.store, KeyBannerClosed, true)
}

// Watch observes external changes to the vault if the store supports it.
func (m *Manager) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := m.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Sync runs the store's best-effort reconciliation pass if supported.
func (m *Manager) Sync(ctx context.Context) error {
	s, ok := m.store.(Syncable)
	if !ok {
		return errors.New("store does not support sync")
	}
	return s.Sync(ctx)
}

// persistLocked writes both collection keys. The caller holds m.mu.
// The two saves are independent; there is no multi-key atomicity.
func (m *Manager) persistLocked(ctx context.Context) error {
	if err := SaveJSON(ctx, m.store, KeyItems, m.coll.Memos); err != nil {
		m.logger.Error("persist memos failed", "error", err)
		return err
	}
	if err := SaveJSON(ctx, m.store, KeyCategories, m.coll.Categories); err != nil {
		m.logger.Error("persist categories failed", "error", err)
		return err
	}
	return nil
}

func validateContent(content string) error {
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("content is %d characters: %w",
			utf8.RuneCountInString(content), ErrContentTooLong)
	}
	return nil
}

// checkBudget rejects a candidate collection whose serialized form would
// blow the storage budget. Sizing happens before the write so the rejection
// leaves both memory and disk untouched.
func checkBudget(c Collection) error {
	size, err := serializedSize(c)
	if err != nil {
		return NewStorageError(StorageUnknown, KeyItems, err)
	}
	if size > StorageBudget {
		return NewStorageError(StorageQuotaExceeded, KeyItems,
			fmt.Errorf("collection is %d characters, budget is %d", size, StorageBudget))
	}
	return nil
}

func serializedSize(c Collection) (int, error) {
	items, err := jsonLength(c.Memos)
	if err != nil {
		return 0, err
	}
	categories, err := jsonLength(c.Categories)
	if err != nil {
		return 0, err
	}
	return items + categories, nil
}

func jsonLength(v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}
