package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"meshbridge/internal/application"
	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// StagedFBXName is the file name the DCC export is written to
const StagedFBXName = "Blender_TMP.fbx"

// ExportResult contains the result of a full export
type ExportResult struct {
	FBXPath  string
	MeshPath string // Final mesh location
	NodePath string
	Surfaces []string
	Missing  []string
	Message  string
}

// ExportCommand runs FBX export, mesh conversion, mesh placement and node
// synthesis in sequence. Any failure aborts the remaining steps.
type ExportCommand struct {
	exporter  ports.SceneExporter // nil when SourceFBX is given
	converter ports.MeshConverter
	artifacts ports.ArtifactStore
	mapping   *domain.GuidMapping
	logger    *slog.Logger

	ExportRoot  string
	Destination string
	MeshName    string
	GlobalScale float64
	NodeOptions domain.NodeOptions
	Strict      bool

	// SourceFBX skips the DCC exporter and stages this file instead
	SourceFBX string
	// Surfaces overrides the object list reported by the exporter
	Surfaces []string
}

// ExportDeps groups the collaborators of an export
type ExportDeps struct {
	Exporter  ports.SceneExporter
	Converter ports.MeshConverter
	Artifacts ports.ArtifactStore
	Mapping   *domain.GuidMapping
	Logger    *slog.Logger
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(deps ExportDeps, exportRoot, destination, meshName string) *ExportCommand {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportCommand{
		exporter:    deps.Exporter,
		converter:   deps.Converter,
		artifacts:   deps.Artifacts,
		mapping:     deps.Mapping,
		logger:      logger,
		ExportRoot:  exportRoot,
		Destination: destination,
		MeshName:    meshName,
		NodeOptions: domain.DefaultNodeOptions(),
	}
}

// Validate checks the command inputs
func (c *ExportCommand) Validate() error {
	if err := application.ValidateRequired("destination", c.Destination); err != nil {
		return err
	}
	if err := application.ValidateFileName("meshName", c.MeshName); err != nil {
		return err
	}
	if c.SourceFBX == "" {
		if err := application.ValidateRequired("exportRoot", c.ExportRoot); err != nil {
			return err
		}
		if c.exporter == nil {
			return &application.ValidationError{
				Field:   "fbxPath",
				Message: "FBX path is required when no exporter is configured",
			}
		}
		if c.GlobalScale <= 0 {
			return &application.ValidationError{
				Field:   "globalScale",
				Message: fmt.Sprintf("global scale must be positive, got: %g", c.GlobalScale),
			}
		}
	}
	return nil
}

// Execute runs the export pipeline
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Fail before exporting anything if the converter is missing
	if !c.converter.IsAvailable() {
		return nil, fmt.Errorf("cannot export: %w", application.ErrExecutableNotFound)
	}

	fbxPath, objects, err := c.produceFBX(ctx)
	if err != nil {
		return nil, err
	}
	surfaces := objects
	if len(c.Surfaces) > 0 {
		surfaces = c.Surfaces
	}

	// Strict failures must leave the destination untouched
	if c.Strict {
		if _, missing := domain.BuildSceneNode(c.MeshName, c.MeshName+".mesh", surfaces, c.mapping, c.NodeOptions); len(missing) > 0 {
			return nil, &application.UnresolvedSurfacesError{Names: missing}
		}
	}

	startedAt := time.Now().Add(-time.Second)
	meshPath, err := c.converter.ToMesh(ctx, fbxPath)
	if err != nil {
		return nil, err
	}

	meshPath, err = c.locateMesh(meshPath, filepath.Dir(fbxPath), startedAt)
	if err != nil {
		return nil, err
	}

	finalMesh, err := c.artifacts.MoveMesh(meshPath, c.Destination, c.MeshName)
	if err != nil {
		return nil, fmt.Errorf("failed to place mesh: %w", err)
	}
	c.logger.Info("mesh placed", "path", finalMesh)

	nodePath := filepath.Join(c.Destination, c.MeshName+".node")
	nodeCmd := NewSynthesizeNodeCommand(c.mapping, c.artifacts, c.MeshName, finalMesh, surfaces, c.NodeOptions)
	nodeCmd.Strict = c.Strict
	nodeCmd.OutputPath = nodePath
	nodeResult, err := nodeCmd.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodeResult.Missing) > 0 {
		c.logger.Warn("surfaces without material GUID", "surfaces", nodeResult.Missing, "fallback", domain.DefaultGUID)
	}

	return &ExportResult{
		FBXPath:  fbxPath,
		MeshPath: finalMesh,
		NodePath: nodePath,
		Surfaces: surfaces,
		Missing:  nodeResult.Missing,
		Message:  fmt.Sprintf("Exported %s with %d surfaces to %s", c.MeshName, len(surfaces), finalMesh),
	}, nil
}

// produceFBX exports from the DCC, or stages the given FBX into the export root
func (c *ExportCommand) produceFBX(ctx context.Context) (string, []string, error) {
	if c.SourceFBX != "" {
		if !c.artifacts.Exists(c.SourceFBX) {
			return "", nil, &application.ValidationError{
				Field:   "fbxPath",
				Message: fmt.Sprintf("FBX file not found: %s", c.SourceFBX),
			}
		}
		dir := c.ExportRoot
		if dir == "" {
			dir = filepath.Dir(c.SourceFBX)
		}
		staged, err := c.artifacts.StageFile(c.SourceFBX, dir)
		if err != nil {
			return "", nil, err
		}
		return staged, nil, nil
	}

	res, err := c.exporter.Export(ctx, ports.ExportRequest{
		OutputPath:  filepath.Join(c.ExportRoot, StagedFBXName),
		GlobalScale: c.GlobalScale,
	})
	if err != nil {
		return "", nil, err
	}
	c.logger.Info("FBX exported", "path", res.FBXPath, "objects", len(res.Objects))
	return res.FBXPath, res.Objects, nil
}

// locateMesh prefers the path the converter reported and only falls back to
// the newest mesh written in dir since the conversion started.
func (c *ExportCommand) locateMesh(expected, dir string, notBefore time.Time) (string, error) {
	if c.artifacts.Exists(expected) {
		return expected, nil
	}

	latest, err := c.artifacts.LatestMesh(dir, notBefore)
	if err != nil {
		return "", fmt.Errorf("%w: expected %s: %v", application.ErrNoMeshProduced, expected, err)
	}
	if latest == "" {
		return "", fmt.Errorf("%w: expected %s", application.ErrNoMeshProduced, expected)
	}
	c.logger.Warn("converter output not at expected path, using newest mesh", "expected", expected, "using", latest)
	return latest, nil
}

// ImportResult contains the result of converting a mesh back to FBX
type ImportResult struct {
	MeshPath   string
	OutputPath string
	Message    string
}

// ImportCommand converts an engine mesh back to FBX
type ImportCommand struct {
	converter  ports.MeshConverter
	artifacts  ports.ArtifactStore
	MeshPath   string
	OutputPath string
}

// NewImportCommand creates a new ImportCommand.
// An empty outputPath defaults to the mesh path with an .fbx extension.
func NewImportCommand(converter ports.MeshConverter, artifacts ports.ArtifactStore, meshPath, outputPath string) *ImportCommand {
	return &ImportCommand{
		converter:  converter,
		artifacts:  artifacts,
		MeshPath:   meshPath,
		OutputPath: outputPath,
	}
}

// Validate checks the command inputs
func (c *ImportCommand) Validate() error {
	return application.ValidateRequired("meshPath", c.MeshPath)
}

// Execute runs the reverse conversion
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.artifacts.Exists(c.MeshPath) {
		return nil, &application.ValidationError{
			Field:   "meshPath",
			Message: fmt.Sprintf("mesh file not found: %s", c.MeshPath),
		}
	}

	out := c.OutputPath
	if out == "" {
		out = c.MeshPath[:len(c.MeshPath)-len(filepath.Ext(c.MeshPath))] + ".fbx"
	}

	if err := c.converter.FromMesh(ctx, c.MeshPath, out); err != nil {
		if errors.Is(err, application.ErrExecutableNotFound) {
			return nil, fmt.Errorf("cannot import: %w", err)
		}
		return nil, err
	}

	return &ImportResult{
		MeshPath:   c.MeshPath,
		OutputPath: out,
		Message:    fmt.Sprintf("Imported %s to %s", c.MeshPath, out),
	}, nil
}
