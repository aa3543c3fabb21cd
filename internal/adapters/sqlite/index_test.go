package sqlite

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshbridge/internal/domain"
)

func openTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	root := t.TempDir()
	c := NewCatalog()
	require.NoError(t, c.Open(root))
	t.Cleanup(func() { c.Close() })
	return c, root
}

func TestCatalog_ReplaceAndLookup(t *testing.T) {
	c, root := openTestCatalog(t)

	assert.True(t, c.NeedsFullRebuild(), "fresh catalog needs a rebuild")

	mtime := time.Unix(1700000000, 0)
	stats, err := c.Replace([]domain.MaterialRecord{
		{Name: "brick", GUID: "g1", SourcePath: filepath.Join(root, "walls", "brick.mat"), ModTime: mtime},
		{Name: "glass", GUID: "g2", SourcePath: filepath.Join(root, "glass.mat"), ModTime: mtime},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EntriesAdded)
	assert.False(t, c.NeedsFullRebuild())

	e, err := c.Lookup("brick")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "g1", e.GUID)
	assert.Equal(t, "walls/brick.mat", e.SourcePath)
	assert.Equal(t, mtime.Unix(), e.Mtime)

	missing, err := c.Lookup("steel")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalog_ReplaceDropsOldEntries(t *testing.T) {
	c, _ := openTestCatalog(t)

	_, err := c.Replace([]domain.MaterialRecord{{Name: "old", GUID: "x"}})
	require.NoError(t, err)

	stats, err := c.Replace([]domain.MaterialRecord{
		{Name: "new", GUID: "y"},
		{Name: "new", GUID: "z"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntriesDeleted)
	assert.Equal(t, 1, stats.EntriesAdded)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, err := c.Lookup("new")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "z", e.GUID, "last duplicate wins")
}

func TestCatalog_Search(t *testing.T) {
	c, _ := openTestCatalog(t)

	_, err := c.Replace([]domain.MaterialRecord{
		{Name: "brick_red", GUID: "a1"},
		{Name: "brick_grey", GUID: "a2"},
		{Name: "concrete", GUID: "b1"},
	})
	require.NoError(t, err)

	results, err := c.Search("brick")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "brick_grey", results[0].Name)

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOpenOptional(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("opens", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		c := OpenOptional(t.TempDir(), logger)
		require.NotNil(t, c)
		defer c.Close()

		n, err := c.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("unwritable data dir yields nil", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		t.Setenv("XDG_DATA_HOME", blocker)

		c := OpenOptional(t.TempDir(), logger)
		assert.Nil(t, c)
	})
}
