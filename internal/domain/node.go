package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultGUID is substituted for surfaces whose material is not in the mapping
	DefaultGUID = "default_guid"

	DefaultSurfaceProperty = "surface_base"
	DefaultNodeVersion     = "2.18.0.0"
	DefaultNodeType        = "ObjectMeshStatic"

	DefaultPathMarker     = "/worlds/"
	DefaultRelativePrefix = "../worlds/"
)

// IdentityTransform is the row-major 4x4 identity matrix
var IdentityTransform = [16]float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// SurfaceRef binds one mesh surface to a material GUID
type SurfaceRef struct {
	Name         string
	MaterialGUID string
	Property     string
}

// SceneNodeDescriptor describes one mesh instance in a scene-node file
type SceneNodeDescriptor struct {
	ID        int32
	Name      string
	MeshPath  string
	Surfaces  []SurfaceRef
	Transform [16]float64
}

// PathRule rewrites absolute mesh paths into engine-relative ones
type PathRule struct {
	Marker         string // e.g. "/worlds/"
	RelativePrefix string // e.g. "../worlds/"
}

// DefaultPathRule returns the stock worlds-relative rule
func DefaultPathRule() PathRule {
	return PathRule{Marker: DefaultPathMarker, RelativePrefix: DefaultRelativePrefix}
}

// Apply normalizes separators to forward slashes and, when the marker occurs,
// replaces everything up to and including its first occurrence with RelativePrefix.
func (r PathRule) Apply(meshPath string) string {
	p := strings.ReplaceAll(meshPath, `\`, "/")
	if r.Marker == "" {
		return p
	}
	marker := strings.ReplaceAll(r.Marker, `\`, "/")
	idx := strings.Index(p, marker)
	if idx < 0 {
		return p
	}
	return r.RelativePrefix + p[idx+len(marker):]
}

// NodeOptions holds the fixed parts of the node template
type NodeOptions struct {
	Version  string
	NodeType string
	Property string
	Rule     PathRule
	ID       int32 // Zero means generate one
}

// DefaultNodeOptions returns the stock template settings
func DefaultNodeOptions() NodeOptions {
	return NodeOptions{
		Version:  DefaultNodeVersion,
		NodeType: DefaultNodeType,
		Property: DefaultSurfaceProperty,
		Rule:     DefaultPathRule(),
	}
}

// NewNodeID returns a positive 31-bit node identifier
func NewNodeID() int32 {
	id := int32(uuid.New().ID() & 0x7fffffff)
	if id == 0 {
		id = 1
	}
	return id
}

// BuildSceneNode resolves each surface object against the mapping, in order.
// Unknown names resolve to DefaultGUID; the returned slice lists them.
func BuildSceneNode(objectName, meshPath string, surfaceObjects []string, mapping *GuidMapping, opts NodeOptions) (*SceneNodeDescriptor, []string) {
	id := opts.ID
	if id == 0 {
		id = NewNodeID()
	}
	property := opts.Property
	if property == "" {
		property = DefaultSurfaceProperty
	}

	node := &SceneNodeDescriptor{
		ID:        id,
		Name:      objectName,
		MeshPath:  opts.Rule.Apply(meshPath),
		Surfaces:  make([]SurfaceRef, 0, len(surfaceObjects)),
		Transform: IdentityTransform,
	}

	var missing []string
	for _, obj := range surfaceObjects {
		guid, ok := mapping.Lookup(obj)
		if !ok {
			guid = DefaultGUID
			missing = append(missing, obj)
		}
		node.Surfaces = append(node.Surfaces, SurfaceRef{
			Name:         obj,
			MaterialGUID: guid,
			Property:     property,
		})
	}

	return node, missing
}

// Synthesize builds the node and renders it in one step
func Synthesize(objectName, meshPath string, surfaceObjects []string, mapping *GuidMapping, opts NodeOptions) string {
	node, _ := BuildSceneNode(objectName, meshPath, surfaceObjects, mapping, opts)
	return node.Render(opts)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Render produces the scene-node document text
func (n *SceneNodeDescriptor) Render(opts NodeOptions) string {
	version := opts.Version
	if version == "" {
		version = DefaultNodeVersion
	}
	nodeType := opts.NodeType
	if nodeType == "" {
		nodeType = DefaultNodeType
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(&b, "<nodes version=\"%s\">\n", xmlEscaper.Replace(version))
	fmt.Fprintf(&b, "\t<node type=\"%s\" id=\"%d\" name=\"%s\">\n",
		xmlEscaper.Replace(nodeType), n.ID, xmlEscaper.Replace(n.Name))
	fmt.Fprintf(&b, "\t\t<mesh_name>%s</mesh_name>\n", xmlEscaper.Replace(n.MeshPath))
	for _, s := range n.Surfaces {
		fmt.Fprintf(&b, "\t\t<surface name=\"%s\" material=\"%s\" property=\"%s\"/>\n",
			xmlEscaper.Replace(s.Name), xmlEscaper.Replace(s.MaterialGUID), xmlEscaper.Replace(s.Property))
	}
	fmt.Fprintf(&b, "\t\t<transform>%s</transform>\n", formatTransform(n.Transform))
	b.WriteString("\t</node>\n")
	b.WriteString("</nodes>\n")
	return b.String()
}

func formatTransform(m [16]float64) string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
