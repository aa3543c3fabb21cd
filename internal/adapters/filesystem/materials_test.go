package filesystem

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshbridge/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeMaterial(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func materialXML(name, guid string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<material version="2.18.0.0" name="` + name + `" guid="` + guid + `" parent="mesh_base">
	<state name="auxiliary">1</state>
	<texture name="albedo">textures/brick_d.dds</texture>
</material>
`
}

func TestMaterialScanner_ExtractsRecords(t *testing.T) {
	root := t.TempDir()
	writeMaterial(t, filepath.Join(root, "brick.mat"), materialXML("brick", "1111"))
	writeMaterial(t, filepath.Join(root, "props", "crate.mat"), materialXML("crate", "2222"))
	writeMaterial(t, filepath.Join(root, "props", "readme.txt"), "not a material")

	scanner := NewMaterialScanner(".mat", quietLogger())
	records, stats, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	mapping := domain.NewGuidMapping(records)
	assert.Equal(t, 2, mapping.Len())
	assert.Equal(t, "1111", mapping.Resolve("brick"))
	assert.Equal(t, "2222", mapping.Resolve("crate"))
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 0, stats.Skipped)

	for _, r := range records {
		assert.NotEmpty(t, r.SourcePath)
		assert.False(t, r.ModTime.IsZero())
	}
}

func TestMaterialScanner_SkipsBadFiles(t *testing.T) {
	root := t.TempDir()
	writeMaterial(t, filepath.Join(root, "good.mat"), materialXML("good", "g1"))
	writeMaterial(t, filepath.Join(root, "noguid.mat"), `<material name="noguid"/>`)
	writeMaterial(t, filepath.Join(root, "noname.mat"), `<material guid="abc"/>`)
	writeMaterial(t, filepath.Join(root, "garbage.mat"), "this is not xml at all")
	writeMaterial(t, filepath.Join(root, "truncated.mat"), `<material name="t" guid=`)
	writeMaterial(t, filepath.Join(root, "wrongcase.mat"), `<material Name="x" GUID="y"/>`)

	scanner := NewMaterialScanner(".mat", quietLogger())
	records, stats, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Name)
	assert.Equal(t, 6, stats.FilesScanned)
	assert.Equal(t, 5, stats.Skipped)
}

func TestMaterialScanner_SkipsNamesTheMappingCannotStore(t *testing.T) {
	root := t.TempDir()
	writeMaterial(t, filepath.Join(root, "oak.mat"), materialXML("wood : oak", "g1"))
	writeMaterial(t, filepath.Join(root, "quoted.mat"), `<material name="say &quot;hi&quot;" guid="g2"/>`)
	writeMaterial(t, filepath.Join(root, "quotedguid.mat"), `<material name="fine" guid="a&quot;b"/>`)

	scanner := NewMaterialScanner(".mat", quietLogger())
	records, stats, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "wood : oak", records[0].Name)
	assert.Equal(t, 2, stats.Skipped)

	// Everything scanned survives a save and reload
	path := filepath.Join(t.TempDir(), "mapping.txt")
	store := NewMappingStore(quietLogger())
	require.NoError(t, store.Save(domain.NewGuidMapping(records), path))
	loaded, err := store.Load(path)
	require.NoError(t, err)
	guid, ok := loaded.Lookup("wood : oak")
	assert.True(t, ok)
	assert.Equal(t, "g1", guid)
}

func TestMaterialScanner_DuplicateNameLastScannedWins(t *testing.T) {
	root := t.TempDir()
	// WalkDir visits entries in lexical order: a/ before b/
	writeMaterial(t, filepath.Join(root, "a", "stone.mat"), materialXML("stone", "first"))
	writeMaterial(t, filepath.Join(root, "b", "stone.mat"), materialXML("stone", "second"))

	scanner := NewMaterialScanner(".mat", quietLogger())
	records, _, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	mapping := domain.NewGuidMapping(records)
	assert.Equal(t, 1, mapping.Len())
	assert.Equal(t, "second", mapping.Resolve("stone"))
}

func TestMaterialScanner_MissingRoot(t *testing.T) {
	scanner := NewMaterialScanner(".mat", quietLogger())
	_, _, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaterialScanner_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeMaterial(t, filepath.Join(root, "a.mat"), materialXML("a", "1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewMaterialScanner(".mat", quietLogger())
	_, _, err := scanner.Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRootAttributes_EscapedValues(t *testing.T) {
	attrs, err := rootAttributes([]byte(`<material name="salt &amp; pepper" guid='abc'/>`))
	require.NoError(t, err)
	assert.Equal(t, "salt & pepper", attrs["name"])
	assert.Equal(t, "abc", attrs["guid"])
}

func TestScanPersistLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	want := map[string]string{
		"brick":      "8f1c0d2e",
		"glass pane": "77aa00bb",
		"metal":      "00000001",
	}
	i := 0
	for name, guid := range want {
		i++
		writeMaterial(t, filepath.Join(root, "dir", string(rune('a'+i))+".mat"), materialXML(name, guid))
	}

	scanner := NewMaterialScanner(".mat", quietLogger())
	records, _, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	store := NewMappingStore(quietLogger())
	out := filepath.Join(t.TempDir(), "mapping.txt")
	require.NoError(t, store.Save(domain.NewGuidMapping(records), out))

	loaded, err := store.Load(out)
	require.NoError(t, err)
	require.Equal(t, len(want), loaded.Len())
	for name, guid := range want {
		got, ok := loaded.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, guid, got)
	}
}
