package ports

import "time"

// ArtifactStore handles the files flowing through an export
type ArtifactStore interface {
	// Exists reports whether path is an existing regular file
	Exists(path string) bool

	// LatestMesh returns the newest mesh file in dir modified at or after notBefore
	LatestMesh(dir string, notBefore time.Time) (string, error)

	// StageFile copies src into dir and returns the new path
	StageFile(src, dir string) (string, error)

	// MoveMesh moves src to destDir/name.mesh, creating destDir
	MoveMesh(src, destDir, name string) (string, error)

	// WriteFile atomically replaces path with data
	WriteFile(path string, data []byte) error
}
