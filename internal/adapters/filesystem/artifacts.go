package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"meshbridge/internal/ports"
)

// MeshExt is the engine mesh file extension
const MeshExt = ".mesh"

// Artifacts implements ports.ArtifactStore on the local filesystem
type Artifacts struct {
	rename func(oldpath, newpath string) error
}

// Ensure Artifacts implements ports.ArtifactStore
var _ ports.ArtifactStore = (*Artifacts)(nil)

// NewArtifacts creates a new artifact store
func NewArtifacts() *Artifacts {
	return &Artifacts{rename: os.Rename}
}

// Exists reports whether path is an existing regular file
func (a *Artifacts) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LatestMesh returns the most recently modified mesh file directly inside dir,
// ignoring files older than notBefore.
func (a *Artifacts) LatestMesh(dir string, notBefore time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), MeshExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		if mtime.Before(notBefore) {
			continue
		}
		if latest == "" || mtime.After(latestTime) {
			latest = filepath.Join(dir, entry.Name())
			latestTime = mtime
		}
	}

	if latest == "" {
		return "", os.ErrNotExist
	}
	return latest, nil
}

// StageFile copies src into dir, keeping its base name.
// If src already lives in dir it is returned unchanged.
func (a *Artifacts) StageFile(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if srcAbs == dstAbs {
		return dst, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := copyFileAtomic(src, dst); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", src, err)
	}
	return dst, nil
}

// MoveMesh moves src to destDir/name.mesh, replacing any existing file
func (a *Artifacts) MoveMesh(src, destDir, name string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination %s: %w", destDir, err)
	}

	dst := filepath.Join(destDir, name+MeshExt)
	if err := a.rename(src, dst); err != nil {
		// Rename fails across volumes; fall back to copy and remove
		if copyErr := copyFileAtomic(src, dst); copyErr != nil {
			return "", fmt.Errorf("failed to move %s to %s: %w", src, dst, errors.Join(err, copyErr))
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("failed to remove %s after copy: %w", src, err)
		}
	}
	return dst, nil
}

// WriteFile atomically replaces path with data
func (a *Artifacts) WriteFile(path string, data []byte) error {
	return writeFileAtomic(path, data, 0644)
}
