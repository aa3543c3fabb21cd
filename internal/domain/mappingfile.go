package domain

import (
	"bufio"
	"io"
	"strings"
)

// mappingSeparator splits the two quoted fields of a mapping line
const mappingSeparator = " : "

// FormatMappingLine renders one mapping record as `"name" : "guid"`
func FormatMappingLine(name, guid string) string {
	return `"` + name + `"` + mappingSeparator + `"` + guid + `"`
}

// ParseMappingLine parses a `"name" : "guid"` line.
// The line splits on the first quoted separator, so names may contain " : ".
// Returns ok=false for anything that is not exactly two quote-wrapped fields.
func ParseMappingLine(line string) (name, guid string, ok bool) {
	line = strings.TrimSpace(strings.TrimRight(line, "\r\n"))
	if len(line) < 2 || line[0] != '"' || line[len(line)-1] != '"' {
		return "", "", false
	}

	name, guid, ok = strings.Cut(line[1:len(line)-1], `"`+mappingSeparator+`"`)
	if !ok || !ValidMappingField(name) || !ValidMappingField(guid) {
		return "", "", false
	}
	return name, guid, true
}

// ValidMappingField reports whether s can be stored in a mapping line
func ValidMappingField(s string) bool {
	return s != "" && !strings.ContainsAny(s, "\"\r\n")
}

// WriteMapping writes every entry of m, one line each, sorted by name
func WriteMapping(w io.Writer, m *GuidMapping) error {
	bw := bufio.NewWriter(w)
	for _, r := range m.Records() {
		if _, err := bw.WriteString(FormatMappingLine(r.Name, r.GUID) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadMapping parses mapping lines from r, skipping malformed lines.
// Returns the mapping and the number of lines skipped.
func ReadMapping(r io.Reader) (*GuidMapping, int, error) {
	var records []MaterialRecord
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, guid, ok := ParseMappingLine(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, MaterialRecord{Name: name, GUID: guid})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}

	return NewGuidMapping(records), skipped, nil
}
