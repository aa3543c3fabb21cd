package commands

import (
	"context"
	"errors"
	"testing"

	"meshbridge/internal/domain"
)

func TestBuildIndexCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		output  string
		wantErr bool
		errMsg  string
	}{
		{name: "valid", root: "/data/materials", output: "/data/guids.txt"},
		{name: "missing root", root: "", output: "/data/guids.txt", wantErr: true, errMsg: "materials root is required"},
		{name: "missing output", root: "/data/materials", output: " ", wantErr: true, errMsg: "mapping path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewBuildIndexCommand(&fakeSource{}, newFakeStore(), nil, tt.root, tt.output)
			err := cmd.Validate()
			if tt.wantErr {
				if err == nil || !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildIndexCommand_Execute(t *testing.T) {
	source := &fakeSource{records: []domain.MaterialRecord{
		{Name: "metal_rough", GUID: "aaa"},
		{Name: "wood", GUID: "bbb"},
		{Name: "metal_rough", GUID: "ccc"},
	}}
	store := newFakeStore()
	catalog := &fakeCatalog{}

	cmd := NewBuildIndexCommand(source, store, catalog, "/materials", "/out/guids.txt")
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Mapping.Len() != 2 {
		t.Errorf("expected 2 unique names, got %d", result.Mapping.Len())
	}
	if got := result.Mapping.Resolve("metal_rough"); got != "ccc" {
		t.Errorf("later duplicate should win, got %q", got)
	}
	if _, ok := store.saved["/out/guids.txt"]; !ok {
		t.Error("mapping was not persisted")
	}
	if catalog.replaced != 1 || result.CatalogStats == nil {
		t.Error("catalog was not refreshed")
	}
	if !contains(result.Message, "Indexed 2 materials") {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestBuildIndexCommand_ScanFailureWritesNothing(t *testing.T) {
	scanErr := errors.New("materials root unreadable")
	store := newFakeStore()

	cmd := NewBuildIndexCommand(&fakeSource{err: scanErr}, store, nil, "/missing", "/out/guids.txt")
	if _, err := cmd.Execute(context.Background()); !errors.Is(err, scanErr) {
		t.Fatalf("expected scan error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("nothing should be persisted after a failed scan")
	}
}

func TestBuildIndexCommand_SaveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	catalog := &fakeCatalog{}

	cmd := NewBuildIndexCommand(&fakeSource{}, store, catalog, "/materials", "/out/guids.txt")
	_, err := cmd.Execute(context.Background())
	if err == nil || !contains(err.Error(), "failed to save mapping") {
		t.Fatalf("expected save error, got %v", err)
	}
	if catalog.replaced != 0 {
		t.Error("catalog should not be touched when saving fails")
	}
}

func TestLoadMappingCommand(t *testing.T) {
	store := newFakeStore()
	store.saved["/guids.txt"] = domain.NewGuidMapping([]domain.MaterialRecord{{Name: "wood", GUID: "bbb"}})

	m, err := NewLoadMappingCommand(store, "/guids.txt").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if m.Resolve("wood") != "bbb" {
		t.Error("expected loaded mapping")
	}

	m, err = NewLoadMappingCommand(store, "/absent.txt").Execute(context.Background())
	if err != nil || m.Len() != 0 {
		t.Errorf("missing file should give empty mapping, got %v, %v", m, err)
	}

	if _, err := NewLoadMappingCommand(store, "").Execute(context.Background()); err == nil {
		t.Error("expected validation error for empty path")
	}
}

func TestLookupCommand(t *testing.T) {
	mapping := domain.NewGuidMapping([]domain.MaterialRecord{{Name: "wood", GUID: "bbb"}})

	results, err := NewLookupCommand(mapping, []string{"wood", "glass"}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Found || results[0].GUID != "bbb" {
		t.Errorf("unexpected result for wood: %+v", results[0])
	}
	if results[1].Found || results[1].GUID != domain.DefaultGUID {
		t.Errorf("unknown name should resolve to default, got %+v", results[1])
	}
}

func TestLookupCommand_AddsCatalogSourcePath(t *testing.T) {
	mapping := domain.NewGuidMapping([]domain.MaterialRecord{
		{Name: "wood", GUID: "bbb"},
		{Name: "stone", GUID: "new-guid"},
	})
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{Name: "wood", GUID: "bbb", SourcePath: "props/wood.mat"},
		{Name: "stone", GUID: "old-guid", SourcePath: "rock/stone.mat"},
		{Name: "glass", GUID: "ccc", SourcePath: "glass.mat"},
	}}

	cmd := NewLookupCommand(mapping, []string{"wood", "stone", "glass"})
	cmd.Catalog = catalog
	results, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if results[0].SourcePath != "props/wood.mat" {
		t.Errorf("expected source path for wood, got %q", results[0].SourcePath)
	}
	if results[1].SourcePath != "" || results[1].GUID != "new-guid" {
		t.Errorf("stale catalog entry should not override the mapping: %+v", results[1])
	}
	if results[2].Found || results[2].SourcePath != "" {
		t.Errorf("names missing from the mapping stay unresolved: %+v", results[2])
	}
}
