package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshbridge/internal/domain"
)

func TestMappingStore_SaveWritesSortedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mapping.txt")
	store := NewMappingStore(nil)

	mapping := domain.NewGuidMapping([]domain.MaterialRecord{
		{Name: "wood", GUID: "g2"},
		{Name: "glass", GUID: "g1"},
	})
	require.NoError(t, store.Save(mapping, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"glass\" : \"g1\"\n\"wood\" : \"g2\"\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestMappingStore_SaveReplacesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.txt")
	store := NewMappingStore(nil)

	require.NoError(t, store.Save(domain.NewGuidMapping([]domain.MaterialRecord{
		{Name: "old", GUID: "g0"},
	}), path))
	require.NoError(t, store.Save(domain.NewGuidMapping([]domain.MaterialRecord{
		{Name: "new", GUID: "g1"},
	}), path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, loaded.Names())
}
