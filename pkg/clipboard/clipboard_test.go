package clipboard_test

import (
	"testing"

	"github.com/aretw0/clipmemo/pkg/clipboard"
)

func TestCopyNotification(t *testing.T) {
	if !clipboard.Available() {
		t.Skip("no clipboard backend on this system")
	}

	t.Run("Korean Message", func(t *testing.T) {
		n := clipboard.Copy("메모 내용", "ko")
		if !n.OK {
			t.Fatalf("copy failed: %s", n.Message)
		}
		if n.Message != "복사되었습니다" {
			t.Errorf("unexpected message: %s", n.Message)
		}
	})

	t.Run("Unknown Language Falls Back To English", func(t *testing.T) {
		n := clipboard.Copy("memo", "fr")
		if !n.OK {
			t.Fatalf("copy failed: %s", n.Message)
		}
		if n.Message != "Copied to clipboard" {
			t.Errorf("unexpected message: %s", n.Message)
		}
	})
}
