package filesystem

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// MappingStore implements ports.MappingStore with the flat `"name" : "guid"` format
type MappingStore struct {
	logger *slog.Logger
}

// Ensure MappingStore implements ports.MappingStore
var _ ports.MappingStore = (*MappingStore)(nil)

// NewMappingStore creates a new mapping file store
func NewMappingStore(logger *slog.Logger) *MappingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MappingStore{logger: logger}
}

// Save overwrites path with the full mapping
func (s *MappingStore) Save(mapping *domain.GuidMapping, path string) error {
	var buf bytes.Buffer
	if err := domain.WriteMapping(&buf, mapping); err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	s.logger.Debug("mapping saved", "path", path, "entries", mapping.Len())
	return nil
}

// Load reads the mapping at path. A missing file yields an empty mapping.
func (s *MappingStore) Load(path string) (*domain.GuidMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no mapping file yet", "path", path)
			return domain.EmptyGuidMapping(), nil
		}
		return nil, fmt.Errorf("failed to open mapping: %w", err)
	}
	defer f.Close()

	mapping, skipped, err := domain.ReadMapping(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping %s: %w", path, err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed mapping lines", "path", path, "count", skipped)
	}
	return mapping, nil
}
