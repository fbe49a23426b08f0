package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/docs/api/users", filepath.Join("example.com", "docs/api/users.json")},
		{"https://example.com/", filepath.Join("example.com", "index.json")},
		{"https://example.com", filepath.Join("example.com", "index.json")},
		{"https://example.com/docs/", filepath.Join("example.com", "docs/index.json")},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			got, err := fs.URLToPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()
		_, err := fs.URLToPath("/relative/only")
		require.Error(t, err)
		assert.Equal(t, pagelens.EINVALID, pagelens.ErrorCode(err))
	})
}

func TestSnapshotStore(t *testing.T) {
	t.Parallel()

	snap := &pagelens.Snapshot{
		Title:    "Widget Docs",
		URL:      "https://example.com/docs",
		Headings: []pagelens.Heading{{Level: 1, Text: "Getting Started"}},
	}

	t.Run("save commit load round trip", func(t *testing.T) {
		t.Parallel()
		store := fs.NewSnapshotStore(t.TempDir(), "snapshots")

		require.NoError(t, store.Save(snap))
		require.NoError(t, store.Commit())

		loaded, err := store.Load("https://example.com/docs")
		require.NoError(t, err)
		assert.Equal(t, "Widget Docs", loaded.Title)
		require.Len(t, loaded.Headings, 1)
		assert.Equal(t, "Getting Started", loaded.Headings[0].Text)
	})

	t.Run("load before commit is not found", func(t *testing.T) {
		t.Parallel()
		store := fs.NewSnapshotStore(t.TempDir(), "snapshots")

		require.NoError(t, store.Save(snap))
		_, err := store.Load("https://example.com/docs")
		require.Error(t, err)
		assert.Equal(t, pagelens.ENOTFOUND, pagelens.ErrorCode(err))
	})

	t.Run("commit replaces previous contents", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		store := fs.NewSnapshotStore(base, "snapshots")

		require.NoError(t, store.Save(snap))
		require.NoError(t, store.Commit())

		other := &pagelens.Snapshot{Title: "Other", URL: "https://example.com/other"}
		require.NoError(t, store.Save(other))
		require.NoError(t, store.Commit())

		_, err := store.Load("https://example.com/docs")
		require.Error(t, err, "previous commit should be replaced")
		loaded, err := store.Load("https://example.com/other")
		require.NoError(t, err)
		assert.Equal(t, "Other", loaded.Title)
	})

	t.Run("abort discards staging", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		store := fs.NewSnapshotStore(base, "snapshots")

		require.NoError(t, store.Save(snap))
		require.NoError(t, store.Abort())

		_, err := os.Stat(filepath.Join(base, "snapshots.tmp"))
		assert.True(t, os.IsNotExist(err))
	})
}
