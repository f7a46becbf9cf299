package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/clipmemo"
	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

// setupVault opens a fresh vault in a temporary directory.
func setupVault(t *testing.T) (string, *core.Manager) {
	t.Helper()
	tmp := t.TempDir()

	svc, err := clipmemo.New(tmp,
		clipmemo.WithAutoInit(true),
		clipmemo.WithDevSafety(false),
	)
	require.NoError(t, err)
	return tmp, svc
}

// reopen builds a second manager over the same directory, simulating an
// app restart.
func reopen(t *testing.T, path string) *core.Manager {
	t.Helper()
	svc, err := clipmemo.New(path,
		clipmemo.WithMustExist(true),
		clipmemo.WithDevSafety(false),
	)
	require.NoError(t, err)
	return svc
}

func TestVaultLifecycle(t *testing.T) {
	path, svc := setupVault(t)
	ctx := context.Background()

	// Fresh vault starts with the two reserved categories.
	require.Equal(t, []string{core.CategoryAll, core.CategoryDefault}, svc.Categories())

	// Build up state across categories.
	require.NoError(t, svc.AddCategory(ctx, "work"))
	first, err := svc.AddMemo(ctx, core.Memo{Content: "sprint planning notes", Category: "work"})
	require.NoError(t, err)
	_, err = svc.AddMemo(ctx, core.Memo{Title: "장보기", Content: "우유, 계란"})
	require.NoError(t, err)

	// Everything survives a restart.
	svc2 := reopen(t, path)
	assert.Len(t, svc2.Memos(), 2)
	assert.Contains(t, svc2.Categories(), "work")

	got, err := svc2.GetMemo(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "sprint planning notes", got.Content)
	assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestCategoryCascadeSurvivesRestart(t *testing.T) {
	path, svc := setupVault(t)
	ctx := context.Background()

	require.NoError(t, svc.AddCategory(ctx, "ideas"))
	memo, err := svc.AddMemo(ctx, core.Memo{Content: "prototype the gateway", Category: "ideas"})
	require.NoError(t, err)

	// Rename cascades to the memo.
	require.NoError(t, svc.RenameCategory(ctx, "ideas", "projects"))
	got, err := svc.GetMemo(memo.ID)
	require.NoError(t, err)
	assert.Equal(t, "projects", got.Category)

	// Delete folds members back into the default category.
	require.NoError(t, svc.DeleteCategory(ctx, "projects"))

	svc2 := reopen(t, path)
	got, err = svc2.GetMemo(memo.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryDefault, got.Category)
	assert.NotContains(t, svc2.Categories(), "projects")
}

func TestSearchAcrossRestart(t *testing.T) {
	path, svc := setupVault(t)
	ctx := context.Background()

	_, err := svc.AddMemo(ctx, core.Memo{Title: "Meeting", Content: "quarterly review agenda"})
	require.NoError(t, err)
	_, err = svc.AddMemo(ctx, core.Memo{Title: "Recipe", Content: "kimchi stew"})
	require.NoError(t, err)

	svc2 := reopen(t, path)

	hits := search.Filter(svc2.Memos(), core.CategoryAll, "REVIEW")
	require.Len(t, hits, 1)
	assert.Equal(t, "Meeting", hits[0].Title)

	suggestions := search.Suggest(svc2.Memos(), "me")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Meeting", suggestions[0].Text)
}

func TestSettingsSurviveRestart(t *testing.T) {
	path, svc := setupVault(t)
	ctx := context.Background()

	require.NoError(t, svc.SetLanguage(ctx, core.LanguageEnglish))
	require.NoError(t, svc.CloseBanner(ctx))

	svc2 := reopen(t, path)
	settings := svc2.Settings()
	assert.Equal(t, core.LanguageEnglish, settings.Language)
	assert.True(t, settings.BannerClosed)
}

func TestReadOnlyVaultRejectsWrites(t *testing.T) {
	path, svc := setupVault(t)
	ctx := context.Background()
	_, err := svc.AddMemo(ctx, core.Memo{Content: "seed"})
	require.NoError(t, err)

	ro, err := clipmemo.New(path, clipmemo.WithReadOnly(true))
	require.NoError(t, err)
	assert.Len(t, ro.Memos(), 1)

	_, err = ro.AddMemo(ctx, core.Memo{Content: "should fail"})
	assert.Error(t, err)
}
