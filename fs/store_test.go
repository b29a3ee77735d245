package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/chuchengzhi/blogmirror"
	"github.com/chuchengzhi/blogmirror/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"illegal characters replaced", `a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"whitespace collapsed", "a  b\t\tc", "a b c"},
		{"trimmed", "  hello  ", "hello"},
		{"unicode preserved", "Go 学习笔记", "Go 学习笔记"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.SanitizeName(tt.in))
		})
	}

	t.Run("long names capped at 180 runes", func(t *testing.T) {
		t.Parallel()
		got := fs.SanitizeName(strings.Repeat("标", 300))
		assert.Equal(t, 180, len([]rune(got)))
	})
}

func TestStore_SaveArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes under sanitized tag dir with id suffix", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		art := &blogmirror.Article{Title: "My Post", ID: "100", URL: "https://x/p/100.html"}

		path, err := store.SaveArticle("Go", art, "# hello\n")
		require.NoError(t, err)

		assert.Equal(t, "My Post [p100].md", filepath.Base(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# hello\n", string(data))
	})

	t.Run("colliding titles get numeric suffixes", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		art := &blogmirror.Article{Title: "Same"}

		first, err := store.SaveArticle("Go", art, "one")
		require.NoError(t, err)
		second, err := store.SaveArticle("Go", art, "two")
		require.NoError(t, err)

		assert.Equal(t, "Same.md", filepath.Base(first))
		assert.Equal(t, "Same (1).md", filepath.Base(second))

		data, err := os.ReadFile(first)
		require.NoError(t, err)
		assert.Equal(t, "one", string(data))
	})

	t.Run("empty title becomes untitled", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		path, err := store.SaveArticle("Go", &blogmirror.Article{Title: "   "}, "x")
		require.NoError(t, err)
		assert.Equal(t, "untitled.md", filepath.Base(path))
	})

	t.Run("windows line endings normalized", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		path, err := store.SaveArticle("Go", &blogmirror.Article{Title: "t"}, "a\r\nb\r\n")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", string(data))
	})

	t.Run("concurrent saves of the same title never overwrite", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		store := fs.NewStore(root)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.SaveArticle("Go", &blogmirror.Article{Title: "Race"}, "content")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		entries, err := os.ReadDir(filepath.Join(root, "Go"))
		require.NoError(t, err)
		assert.Len(t, entries, 8)
	})
}

func TestStore_Markers(t *testing.T) {
	t.Parallel()

	t.Run("marker roundtrip by article id", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		store := fs.NewStore(root)
		link := blogmirror.ArticleLink{URL: "https://x/p/100.html", ID: "100"}

		assert.False(t, store.IsDone("Go", link))
		require.NoError(t, store.MarkDone("Go", link))
		assert.True(t, store.IsDone("Go", link))

		data, err := os.ReadFile(filepath.Join(root, "Go", ".done", "p100.done"))
		require.NoError(t, err)
		assert.Equal(t, link.URL, string(data))
	})

	t.Run("id-less links resume by URL", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		link := blogmirror.ArticleLink{URL: "https://x/post/odd-shape"}

		require.NoError(t, store.MarkDone("Go", link))
		assert.True(t, store.IsDone("Go", link))
		assert.False(t, store.IsDone("Go", blogmirror.ArticleLink{URL: "https://x/post/other"}))
	})

	t.Run("markers are scoped per tag", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		link := blogmirror.ArticleLink{URL: "https://x/p/100.html", ID: "100"}

		require.NoError(t, store.MarkDone("Go", link))
		assert.False(t, store.IsDone("Linux", link))
	})
}
