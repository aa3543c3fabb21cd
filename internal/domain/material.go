package domain

import (
	"sort"
	"strings"
	"time"
)

// DefaultMaterialExt is the suffix identifying material definition files
const DefaultMaterialExt = ".mat"

// MaterialRecord is one name/guid pair read from a material definition file
type MaterialRecord struct {
	Name       string
	GUID       string
	SourcePath string    // File the record was read from (empty when loaded from a mapping file)
	ModTime    time.Time // Source file modification time
}

// GuidMapping maps material names to engine GUIDs.
// A GuidMapping is never mutated after construction; rebuilds produce a new value.
type GuidMapping struct {
	entries map[string]string
}

// NewGuidMapping builds a mapping from records in order.
// Later records overwrite earlier ones with the same name.
func NewGuidMapping(records []MaterialRecord) *GuidMapping {
	entries := make(map[string]string, len(records))
	for _, r := range records {
		entries[r.Name] = r.GUID
	}
	return &GuidMapping{entries: entries}
}

// EmptyGuidMapping returns a mapping with no entries
func EmptyGuidMapping() *GuidMapping {
	return &GuidMapping{entries: map[string]string{}}
}

// Lookup returns the GUID for a material name
func (m *GuidMapping) Lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	guid, ok := m.entries[name]
	return guid, ok
}

// Resolve returns the GUID for name, or DefaultGUID when the name is unknown
func (m *GuidMapping) Resolve(name string) string {
	if guid, ok := m.Lookup(name); ok {
		return guid
	}
	return DefaultGUID
}

// Len returns the number of entries
func (m *GuidMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns all material names sorted lexically
func (m *GuidMapping) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns the entries as records sorted by name
func (m *GuidMapping) Records() []MaterialRecord {
	names := m.Names()
	records := make([]MaterialRecord, 0, len(names))
	for _, name := range names {
		records = append(records, MaterialRecord{Name: name, GUID: m.entries[name]})
	}
	return records
}

// ScanStats holds statistics from a material directory scan
type ScanStats struct {
	FilesScanned int // Material files considered
	Records      int // Records successfully extracted
	Skipped      int // Material files that failed to parse or lacked attributes
	Duration     time.Duration
}

// IsMaterialFile reports whether a file name carries the material extension.
// The comparison ignores case.
func IsMaterialFile(name, ext string) bool {
	if ext == "" {
		ext = DefaultMaterialExt
	}
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}
