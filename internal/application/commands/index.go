package commands

import (
	"context"
	"fmt"

	"meshbridge/internal/application"
	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// BuildIndexResult contains the result of indexing a materials tree
type BuildIndexResult struct {
	Mapping      *domain.GuidMapping
	Records      []domain.MaterialRecord
	ScanStats    *domain.ScanStats
	CatalogStats *domain.SyncStats // nil when no catalog is attached
	Message      string
}

// BuildIndexCommand scans a materials tree, persists the mapping file and
// refreshes the catalog
type BuildIndexCommand struct {
	source     ports.MaterialSource
	store      ports.MappingStore
	catalog    ports.MaterialCatalog
	Root       string
	OutputPath string
}

// NewBuildIndexCommand creates a new BuildIndexCommand.
// catalog may be nil.
func NewBuildIndexCommand(source ports.MaterialSource, store ports.MappingStore, catalog ports.MaterialCatalog, root, outputPath string) *BuildIndexCommand {
	return &BuildIndexCommand{
		source:     source,
		store:      store,
		catalog:    catalog,
		Root:       root,
		OutputPath: outputPath,
	}
}

// Validate checks the command inputs
func (c *BuildIndexCommand) Validate() error {
	if err := application.ValidateRequired("materialsRoot", c.Root); err != nil {
		return err
	}
	return application.ValidateRequired("mappingPath", c.OutputPath)
}

// Execute runs the scan, then persists. Nothing is written if the scan fails.
func (c *BuildIndexCommand) Execute(ctx context.Context) (*BuildIndexResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	records, stats, err := c.source.Scan(ctx, c.Root)
	if err != nil {
		return nil, err
	}

	mapping := domain.NewGuidMapping(records)
	if err := c.store.Save(mapping, c.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to save mapping: %w", err)
	}

	result := &BuildIndexResult{
		Mapping:   mapping,
		Records:   records,
		ScanStats: stats,
	}

	if c.catalog != nil {
		syncStats, err := c.catalog.Replace(records)
		if err != nil {
			return nil, fmt.Errorf("failed to update catalog: %w", err)
		}
		result.CatalogStats = syncStats
	}

	result.Message = fmt.Sprintf("Indexed %d materials from %d files (%d skipped) into %s",
		mapping.Len(), stats.FilesScanned, stats.Skipped, c.OutputPath)
	return result, nil
}

// LoadMappingCommand loads the persisted mapping
type LoadMappingCommand struct {
	store ports.MappingStore
	Path  string
}

// NewLoadMappingCommand creates a new LoadMappingCommand
func NewLoadMappingCommand(store ports.MappingStore, path string) *LoadMappingCommand {
	return &LoadMappingCommand{store: store, Path: path}
}

// Execute returns the mapping, empty if none was persisted yet
func (c *LoadMappingCommand) Execute(ctx context.Context) (*domain.GuidMapping, error) {
	if err := application.ValidateRequired("mappingPath", c.Path); err != nil {
		return nil, err
	}
	return c.store.Load(c.Path)
}

// LookupResult is the GUID resolution of one material name
type LookupResult struct {
	Name       string
	GUID       string
	Found      bool
	SourcePath string // Defining file, when a catalog is attached and agrees with the mapping
}

// LookupCommand resolves material names against a mapping
type LookupCommand struct {
	mapping *domain.GuidMapping
	Names   []string
	Catalog ports.MaterialCatalog // Optional, adds source paths
}

// NewLookupCommand creates a new LookupCommand
func NewLookupCommand(mapping *domain.GuidMapping, names []string) *LookupCommand {
	return &LookupCommand{mapping: mapping, Names: names}
}

// Execute returns one result per name, in order. Unknown names get DefaultGUID.
func (c *LookupCommand) Execute(ctx context.Context) ([]LookupResult, error) {
	results := make([]LookupResult, 0, len(c.Names))
	for _, name := range c.Names {
		guid, ok := c.mapping.Lookup(name)
		if !ok {
			guid = domain.DefaultGUID
		}
		r := LookupResult{Name: name, GUID: guid, Found: ok}

		if ok && c.Catalog != nil {
			entry, err := c.Catalog.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("failed to look up %s in catalog: %w", name, err)
			}
			// A catalog from an older scan may disagree; the mapping wins
			if entry != nil && entry.GUID == guid {
				r.SourcePath = entry.SourcePath
			}
		}
		results = append(results, r)
	}
	return results, nil
}
