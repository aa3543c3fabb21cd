package ports

import "context"

// ExportRequest holds the inputs that vary between FBX exports
type ExportRequest struct {
	OutputPath  string
	GlobalScale float64
}

// ExportResult is what the DCC exporter reports back
type ExportResult struct {
	FBXPath string   // Written FBX file
	Objects []string // Selected mesh objects, in export order
}

// SceneExporter produces an FBX file from the DCC scene
type SceneExporter interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
	IsAvailable() bool
}
