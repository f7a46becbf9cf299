// Package clipboard copies memo content to the system clipboard and shapes
// the user-facing result of the attempt.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Notification is the outcome of a copy attempt, phrased for display.
type Notification struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// messages per language, keyed the way settings store the language code.
var copiedMessages = map[string]string{
	"ko": "복사되었습니다",
	"en": "Copied to clipboard",
}

var failedMessages = map[string]string{
	"ko": "복사에 실패했습니다",
	"en": "Copy failed",
}

// Copy places text on the system clipboard and reports the outcome in the
// given language. Unknown languages fall back to English.
func Copy(text, lang string) Notification {
	if err := clipboard.WriteAll(text); err != nil {
		return Notification{OK: false, Message: message(failedMessages, lang, err)}
	}
	return Notification{OK: true, Message: message(copiedMessages, lang, nil)}
}

// Available reports whether a clipboard backend exists on this system.
func Available() bool {
	return !clipboard.Unsupported
}

func message(table map[string]string, lang string, err error) string {
	msg, ok := table[lang]
	if !ok {
		msg = table["en"]
	}
	if err != nil {
		return fmt.Sprintf("%s: %v", msg, err)
	}
	return msg
}
