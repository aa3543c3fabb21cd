package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"meshbridge/internal/domain"
)

const (
	DefaultConfigPath   = "~/.config/meshbridge/config.toml"
	DefaultExportRoot   = "~/.local/share/meshbridge/export"
	DefaultMappingPath  = "~/.local/share/meshbridge/guid_mapping.txt"
	DefaultConverter    = "meshimport_x64"
	DefaultBlender      = "blender"
	DefaultGlobalScale  = 0.01
	DefaultMeshName     = "new_mesh"
	DefaultDestination  = "~/meshbridge/meshes"
	DefaultMaterialsDir = "."
)

// Config holds every environment-specific path and project-specific marker
type Config struct {
	ExportRoot     string  `toml:"export_root" yaml:"export_root"`
	ConverterPath  string  `toml:"converter_path" yaml:"converter_path"`
	ConverterArgs  string  `toml:"converter_args" yaml:"converter_args"`
	BlenderPath    string  `toml:"blender_path" yaml:"blender_path"`
	BlendFile      string  `toml:"blend_file" yaml:"blend_file"`
	GlobalScale    float64 `toml:"global_scale" yaml:"global_scale"`
	MaterialsRoot  string  `toml:"materials_root" yaml:"materials_root"`
	MaterialExt    string  `toml:"material_ext" yaml:"material_ext"`
	MappingPath    string  `toml:"mapping_path" yaml:"mapping_path"`
	MeshDest       string  `toml:"mesh_destination" yaml:"mesh_destination"`
	MeshName       string  `toml:"mesh_name" yaml:"mesh_name"`
	PathMarker     string  `toml:"path_marker" yaml:"path_marker"`
	RelativePrefix string  `toml:"relative_prefix" yaml:"relative_prefix"`
	NodeVersion    string  `toml:"node_version" yaml:"node_version"`
	NodeType       string  `toml:"node_type" yaml:"node_type"`
	Property       string  `toml:"surface_property" yaml:"surface_property"`
	Editor         string  `toml:"editor" yaml:"editor"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ExportRoot:     DefaultExportRoot,
		ConverterPath:  DefaultConverter,
		BlenderPath:    DefaultBlender,
		GlobalScale:    DefaultGlobalScale,
		MaterialsRoot:  DefaultMaterialsDir,
		MaterialExt:    domain.DefaultMaterialExt,
		MappingPath:    DefaultMappingPath,
		MeshDest:       DefaultDestination,
		MeshName:       DefaultMeshName,
		PathMarker:     domain.DefaultPathMarker,
		RelativePrefix: domain.DefaultRelativePrefix,
		NodeVersion:    domain.DefaultNodeVersion,
		NodeType:       domain.DefaultNodeType,
		Property:       domain.DefaultSurfaceProperty,
	}
}

// ConfigPath returns the config file path from MESHBRIDGE_CONFIG env var,
// falling back to DefaultConfigPath.
func ConfigPath() string {
	if env := os.Getenv("MESHBRIDGE_CONFIG"); env != "" {
		return env
	}
	return DefaultConfigPath
}

// Load reads the config file at path over the defaults, then applies
// MESHBRIDGE_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}

		data, err := os.ReadFile(expanded)
		switch {
		case err == nil:
			if err := decode(expanded, data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", expanded, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", expanded, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

// envOverrides maps environment variables to config fields
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"MESHBRIDGE_EXPORT_ROOT":      &c.ExportRoot,
		"MESHBRIDGE_CONVERTER":        &c.ConverterPath,
		"MESHBRIDGE_CONVERTER_ARGS":   &c.ConverterArgs,
		"MESHBRIDGE_BLENDER":          &c.BlenderPath,
		"MESHBRIDGE_BLEND_FILE":       &c.BlendFile,
		"MESHBRIDGE_MATERIALS":        &c.MaterialsRoot,
		"MESHBRIDGE_MATERIAL_EXT":     &c.MaterialExt,
		"MESHBRIDGE_MAPPING":          &c.MappingPath,
		"MESHBRIDGE_DESTINATION":      &c.MeshDest,
		"MESHBRIDGE_MESH_NAME":        &c.MeshName,
		"MESHBRIDGE_PATH_MARKER":      &c.PathMarker,
		"MESHBRIDGE_RELATIVE_PREFIX":  &c.RelativePrefix,
		"MESHBRIDGE_NODE_VERSION":     &c.NodeVersion,
		"MESHBRIDGE_SURFACE_PROPERTY": &c.Property,
	}
}

func (c *Config) applyEnv() error {
	for key, field := range c.envOverrides() {
		if env := os.Getenv(key); env != "" {
			*field = env
		}
	}
	if env := os.Getenv("MESHBRIDGE_GLOBAL_SCALE"); env != "" {
		scale, err := strconv.ParseFloat(env, 64)
		if err != nil {
			return fmt.Errorf("invalid MESHBRIDGE_GLOBAL_SCALE %q: %w", env, err)
		}
		c.GlobalScale = scale
	}
	return nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.ExportRoot, &c.ConverterPath, &c.BlenderPath, &c.BlendFile, &c.MaterialsRoot, &c.MappingPath, &c.MeshDest} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// PathRule returns the mesh path rewrite rule
func (c *Config) PathRule() domain.PathRule {
	return domain.PathRule{Marker: c.PathMarker, RelativePrefix: c.RelativePrefix}
}

// NodeOptions returns the scene-node template settings
func (c *Config) NodeOptions() domain.NodeOptions {
	return domain.NodeOptions{
		Version:  c.NodeVersion,
		NodeType: c.NodeType,
		Property: c.Property,
		Rule:     c.PathRule(),
	}
}
