package core

import "time"

// Reserved category names. Both are always present in the category set.
//
// CategoryAll is a virtual filter ("show everything"), never a real bucket:
// no memo is ever stored under it. CategoryDefault is the fallback bucket
// that absorbs memos whose own category disappears.
const (
	CategoryAll     = "전체"
	CategoryDefault = "기본"
)

// DefaultTitle is the placeholder assigned when a memo is created without one.
const DefaultTitle = "제목 없음"

// CopySuffix is appended to the title of a duplicated memo.
const CopySuffix = " (copy)"

// Content and storage limits.
const (
	// MaxContentLength caps a single memo body, in characters.
	MaxContentLength = 10_000

	// StorageBudget caps the serialized size of the whole collection
	// (memos + categories), in characters. Mirrors the practical limit of
	// the browser-profile storage the vault format originates from.
	StorageBudget = 5_000_000
)

// Memo is the central entity of the domain: a short user-authored note.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Collection is the full persisted state: the memo list plus the ordered
// category set. The two reserved categories always occupy the first two
// slots of Categories; user categories keep their insertion order after them.
type Collection struct {
	Memos      []Memo
	Categories []string
}

// DefaultCategories returns a fresh category set containing only the two
// reserved entries, in their fixed order.
func DefaultCategories() []string {
	return []string{CategoryAll, CategoryDefault}
}

// HasCategory reports whether name is present in the collection's category set.
func (c Collection) HasCategory(name string) bool {
	for _, existing := range c.Categories {
		if existing == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the collection. The Manager mutates a clone
// and swaps it in only after validation passes, so a rejected operation
// never leaves a half-applied state behind.
func (c Collection) Clone() Collection {
	out := Collection{
		Memos:      make([]Memo, len(c.Memos)),
		Categories: make([]string, len(c.Categories)),
	}
	copy(out.Memos, c.Memos)
	copy(out.Categories, c.Categories)
	return out
}

// Language codes accepted for the UI language setting.
const (
	LanguageKorean  = "ko"
	LanguageEnglish = "en"
)

// Settings holds the small per-vault flags persisted alongside the memos.
type Settings struct {
	BannerClosed bool
	Language     string
}

// EventType represents the type of change observed in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a storage key, typically reported by a watch
// on the underlying store when another process writes to the same vault.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
