package commands

import (
	"context"
	"fmt"

	"meshbridge/internal/application"
	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// SynthesizeNodeResult contains the generated scene node
type SynthesizeNodeResult struct {
	Node       *domain.SceneNodeDescriptor
	Document   string
	Missing    []string // Surfaces that fell back to DefaultGUID
	OutputPath string   // Empty when the document was not written
	Message    string
}

// SynthesizeNodeCommand builds a scene-node document for a mesh
type SynthesizeNodeCommand struct {
	mapping    *domain.GuidMapping
	artifacts  ports.ArtifactStore
	NodeName   string
	MeshPath   string
	Surfaces   []string
	Options    domain.NodeOptions
	Strict     bool   // Fail instead of substituting DefaultGUID
	OutputPath string // Optional; requires an artifact store
}

// NewSynthesizeNodeCommand creates a new SynthesizeNodeCommand.
// artifacts may be nil when OutputPath is empty.
func NewSynthesizeNodeCommand(mapping *domain.GuidMapping, artifacts ports.ArtifactStore, nodeName, meshPath string, surfaces []string, opts domain.NodeOptions) *SynthesizeNodeCommand {
	return &SynthesizeNodeCommand{
		mapping:   mapping,
		artifacts: artifacts,
		NodeName:  nodeName,
		MeshPath:  meshPath,
		Surfaces:  surfaces,
		Options:   opts,
	}
}

// Validate checks the command inputs
func (c *SynthesizeNodeCommand) Validate() error {
	if err := application.ValidateRequired("nodeName", c.NodeName); err != nil {
		return err
	}
	if err := application.ValidateRequired("meshPath", c.MeshPath); err != nil {
		return err
	}
	if c.OutputPath != "" && c.artifacts == nil {
		return &application.ValidationError{
			Field:   "outputPath",
			Message: "output path given but no artifact store configured",
		}
	}
	return nil
}

// Execute synthesizes the node and writes it when OutputPath is set
func (c *SynthesizeNodeCommand) Execute(ctx context.Context) (*SynthesizeNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, missing := domain.BuildSceneNode(c.NodeName, c.MeshPath, c.Surfaces, c.mapping, c.Options)
	if c.Strict && len(missing) > 0 {
		return nil, &application.UnresolvedSurfacesError{Names: missing}
	}

	result := &SynthesizeNodeResult{
		Node:     node,
		Document: node.Render(c.Options),
		Missing:  missing,
	}

	if c.OutputPath == "" {
		result.Message = fmt.Sprintf("Synthesized node %s with %d surfaces", node.Name, len(node.Surfaces))
		return result, nil
	}

	if err := c.artifacts.WriteFile(c.OutputPath, []byte(result.Document)); err != nil {
		return nil, fmt.Errorf("failed to write node file: %w", err)
	}
	result.OutputPath = c.OutputPath
	result.Message = fmt.Sprintf("Wrote node %s with %d surfaces to %s", node.Name, len(node.Surfaces), c.OutputPath)
	return result, nil
}
