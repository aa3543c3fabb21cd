package ports

import "context"

// MeshConverter drives the engine's external mesh conversion executable
type MeshConverter interface {
	// ToMesh converts an FBX file and returns the path where the mesh is expected
	ToMesh(ctx context.Context, fbxPath string) (string, error)

	// FromMesh converts an engine mesh back to outputPath
	FromMesh(ctx context.Context, meshPath, outputPath string) error

	// IsAvailable returns true if the executable exists
	IsAvailable() bool
}
