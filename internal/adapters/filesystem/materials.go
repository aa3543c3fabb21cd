package filesystem

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"

	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

var (
	errNoRootElement = errors.New("no root element")
	errMissingName   = errors.New("missing name attribute")
	errMissingGUID   = errors.New("missing guid attribute")
	errUnstorable    = errors.New("name or guid contains a quote or line break")
)

// MaterialScanner implements ports.MaterialSource over a directory tree
type MaterialScanner struct {
	ext    string
	logger *slog.Logger
}

// Ensure MaterialScanner implements MaterialSource
var _ ports.MaterialSource = (*MaterialScanner)(nil)

// NewMaterialScanner creates a scanner for files ending in ext
func NewMaterialScanner(ext string, logger *slog.Logger) *MaterialScanner {
	if ext == "" {
		ext = domain.DefaultMaterialExt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MaterialScanner{ext: ext, logger: logger}
}

// Scan walks root in lexical order and extracts one record per material file
func (s *MaterialScanner) Scan(ctx context.Context, root string) ([]domain.MaterialRecord, *domain.ScanStats, error) {
	start := time.Now()
	stats := &domain.ScanStats{}

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read materials root: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("materials root %s is not a directory", root)
	}

	var records []domain.MaterialRecord
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip hidden directories
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !domain.IsMaterialFile(d.Name(), s.ext) {
			return nil
		}
		stats.FilesScanned++

		rec, err := readMaterialFile(path)
		if err != nil {
			stats.Skipped++
			s.logger.Warn("skipping material file", "path", path, "err", err)
			return nil
		}
		if fi, err := d.Info(); err == nil {
			rec.ModTime = fi.ModTime()
		}
		records = append(records, *rec)
		stats.Records++
		return nil
	})
	if err != nil {
		return records, stats, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	stats.Duration = time.Since(start)
	s.logger.Debug("material scan complete",
		"root", root, "files", stats.FilesScanned, "records", stats.Records, "skipped", stats.Skipped)
	return records, stats, nil
}

// readMaterialFile parses a material definition and returns its name and guid
func readMaterialFile(path string) (*domain.MaterialRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	attrs, err := rootAttributes(data)
	if err != nil {
		return nil, err
	}

	name, ok := attrs["name"]
	if !ok || name == "" {
		return nil, errMissingName
	}
	guid, ok := attrs["guid"]
	if !ok || guid == "" {
		return nil, errMissingGUID
	}

	if !domain.ValidMappingField(name) || !domain.ValidMappingField(guid) {
		return nil, errUnstorable
	}

	return &domain.MaterialRecord{
		Name:       name,
		GUID:       guid,
		SourcePath: path,
	}, nil
}

// rootAttributes returns the attributes of the first element in an XML document.
// Attributes of processing instructions are ignored.
func rootAttributes(data []byte) (map[string]string, error) {
	l := xml.NewLexer(parse.NewInputBytes(data))

	inRoot := false
	attrs := make(map[string]string)
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != nil && l.Err() != io.EOF {
				return nil, l.Err()
			}
			if !inRoot {
				return nil, errNoRootElement
			}
			return nil, fmt.Errorf("unterminated root element")
		case xml.StartTagToken:
			if inRoot {
				return attrs, nil
			}
			inRoot = true
		case xml.AttributeToken:
			if inRoot {
				attrs[string(l.Text())] = attrValue(l.AttrVal())
			}
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if inRoot {
				return attrs, nil
			}
		case xml.TextToken:
			if !inRoot && strings.TrimSpace(string(l.Text())) != "" {
				return nil, errNoRootElement
			}
		}
	}
}

func attrValue(raw []byte) string {
	v := string(raw)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return html.UnescapeString(v)
}
