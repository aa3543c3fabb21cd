package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

type fakeSource struct {
	records []domain.MaterialRecord
	err     error
}

func (f *fakeSource) Scan(ctx context.Context, root string) ([]domain.MaterialRecord, *domain.ScanStats, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.records, &domain.ScanStats{FilesScanned: len(f.records), Records: len(f.records)}, nil
}

type fakeStore struct {
	saved   map[string]*domain.GuidMapping
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]*domain.GuidMapping)}
}

func (f *fakeStore) Save(m *domain.GuidMapping, path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[path] = m
	return nil
}

func (f *fakeStore) Load(path string) (*domain.GuidMapping, error) {
	if m, ok := f.saved[path]; ok {
		return m, nil
	}
	return domain.EmptyGuidMapping(), nil
}

type fakeCatalog struct {
	entries  []domain.CatalogEntry
	replaced int
}

func (f *fakeCatalog) Open(string) error      { return nil }
func (f *fakeCatalog) Close() error           { return nil }
func (f *fakeCatalog) NeedsFullRebuild() bool { return len(f.entries) == 0 }
func (f *fakeCatalog) Count() (int, error)    { return len(f.entries), nil }

func (f *fakeCatalog) Replace(records []domain.MaterialRecord) (*domain.SyncStats, error) {
	deleted := len(f.entries)
	f.entries = f.entries[:0]
	for _, r := range records {
		f.entries = append(f.entries, domain.CatalogEntry{Name: r.Name, GUID: r.GUID, SourcePath: r.SourcePath})
	}
	f.replaced++
	return &domain.SyncStats{EntriesAdded: len(records), EntriesDeleted: deleted}, nil
}

func (f *fakeCatalog) Lookup(name string) (*domain.CatalogEntry, error) {
	for _, e := range f.entries {
		if e.Name == name {
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) Search(query string) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry
	for _, e := range f.entries {
		if strings.Contains(e.Name, query) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeConverter struct {
	available bool
	writeMesh bool // Create <base>.mesh in the artifact store on ToMesh
	artifacts *fakeArtifacts
	err       error
	fromMesh  [][2]string
}

func (f *fakeConverter) IsAvailable() bool { return f.available }

func (f *fakeConverter) ToMesh(ctx context.Context, fbxPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	mesh := strings.TrimSuffix(fbxPath, filepath.Ext(fbxPath)) + ".mesh"
	if f.writeMesh {
		f.artifacts.files[mesh] = []byte("mesh")
	}
	return mesh, nil
}

func (f *fakeConverter) FromMesh(ctx context.Context, meshPath, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	f.fromMesh = append(f.fromMesh, [2]string{meshPath, outputPath})
	return nil
}

type fakeExporter struct {
	objects []string
	err     error
	req     ports.ExportRequest
}

func (f *fakeExporter) IsAvailable() bool { return true }

func (f *fakeExporter) Export(ctx context.Context, req ports.ExportRequest) (*ports.ExportResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &ports.ExportResult{FBXPath: req.OutputPath, Objects: f.objects}, nil
}

type fakeArtifacts struct {
	files  map[string][]byte
	latest string
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{files: make(map[string][]byte)}
}

func (f *fakeArtifacts) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeArtifacts) LatestMesh(dir string, notBefore time.Time) (string, error) {
	return f.latest, nil
}

func (f *fakeArtifacts) StageFile(src, dir string) (string, error) {
	data, ok := f.files[src]
	if !ok {
		return "", errors.New("no such file")
	}
	dst := filepath.Join(dir, filepath.Base(src))
	f.files[dst] = data
	return dst, nil
}

func (f *fakeArtifacts) MoveMesh(src, destDir, name string) (string, error) {
	data, ok := f.files[src]
	if !ok {
		return "", errors.New("no such file")
	}
	dst := filepath.Join(destDir, name+".mesh")
	delete(f.files, src)
	f.files[dst] = data
	return dst, nil
}

func (f *fakeArtifacts) WriteFile(path string, data []byte) error {
	f.files[path] = data
	return nil
}
