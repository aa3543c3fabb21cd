package blendercli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"meshbridge/internal/application"
	"meshbridge/internal/ports"
)

// reportPrefix marks the stdout line carrying the export result
const reportPrefix = "MESHBRIDGE "

// fbxOptions is the fixed FBX exporter parameter set.
// filepath and global_scale are passed per run.
var fbxOptions = map[string]string{
	"check_existing":                  "True",
	"filter_glob":                     `"*.fbx"`,
	"use_selection":                   "True",
	"use_active_collection":           "False",
	"apply_unit_scale":                "True",
	"apply_scale_options":             `'FBX_SCALE_ALL'`,
	"bake_space_transform":            "True",
	"object_types":                    "{'MESH'}",
	"use_mesh_modifiers":              "True",
	"use_mesh_modifiers_render":       "True",
	"mesh_smooth_type":                `'OFF'`,
	"use_mesh_edges":                  "False",
	"use_tspace":                      "False",
	"use_custom_props":                "False",
	"add_leaf_bones":                  "False",
	"primary_bone_axis":               `'Y'`,
	"secondary_bone_axis":             `'X'`,
	"use_armature_deform_only":        "False",
	"armature_nodetype":               `'NULL'`,
	"bake_anim":                       "False",
	"bake_anim_use_all_bones":         "False",
	"bake_anim_use_nla_strips":        "False",
	"bake_anim_use_all_actions":       "False",
	"bake_anim_force_startend_keying": "False",
	"bake_anim_step":                  "1",
	"bake_anim_simplify_factor":       "1",
	"path_mode":                       `'AUTO'`,
	"embed_textures":                  "False",
	"batch_mode":                      `'OFF'`,
	"use_batch_own_dir":               "True",
	"use_metadata":                    "True",
	"axis_forward":                    `'Y'`,
	"axis_up":                         `'Z'`,
}

// Exporter implements ports.SceneExporter by running Blender headless
type Exporter struct {
	blender   string
	blendFile string
	logger    *slog.Logger
}

// Ensure Exporter implements SceneExporter
var _ ports.SceneExporter = (*Exporter)(nil)

// Option configures the Exporter
type Option func(*Exporter)

// WithBlendFile sets the .blend file opened before exporting
func WithBlendFile(path string) Option {
	return func(e *Exporter) {
		e.blendFile = path
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates a new Blender exporter
func NewExporter(blender string, opts ...Option) *Exporter {
	e := &Exporter{
		blender: blender,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// exportReport is the JSON the export script prints
type exportReport struct {
	FBX     string   `json:"fbx"`
	Objects []string `json:"objects"`
}

// Export writes the selected mesh objects to req.OutputPath
func (e *Exporter) Export(ctx context.Context, req ports.ExportRequest) (*ports.ExportResult, error) {
	if !e.IsAvailable() {
		return nil, &application.MissingExecutableError{Path: e.blender}
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create export folder: %w", err)
	}

	args := buildArgs(e.blendFile, req)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.blender, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Info("exporting FBX", "blender", e.blender, "output", req.OutputPath, "scale", req.GlobalScale)
	if err := cmd.Run(); err != nil {
		toolErr := &application.ToolError{
			Kind:    application.ErrExportFailed,
			Command: e.blender,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return nil, toolErr
	}

	return parseExportReport(stdout.String())
}

// IsAvailable checks if the blender executable is installed and accessible
func (e *Exporter) IsAvailable() bool {
	if e.blender == "" {
		return false
	}
	if strings.ContainsAny(e.blender, `/\`) {
		info, err := os.Stat(e.blender)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(e.blender)
	return err == nil
}

func buildArgs(blendFile string, req ports.ExportRequest) []string {
	args := []string{"--background"}
	if blendFile != "" {
		args = append(args, blendFile)
	}
	args = append(args,
		"--python-expr", buildScript(),
		"--",
		req.OutputPath,
		strconv.FormatFloat(req.GlobalScale, 'g', -1, 64),
	)
	return args
}

// buildScript returns the Python run inside Blender. It reads the output path
// and scale after "--", exports, and prints a single report line.
func buildScript() string {
	keys := make([]string, 0, len(fbxOptions))
	for k := range fbxOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var opts strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&opts, "    %s=%s,\n", k, fbxOptions[k])
	}

	return `import bpy, sys, json, os
argv = sys.argv[sys.argv.index("--") + 1:]
out, scale = argv[0], float(argv[1])
os.makedirs(os.path.dirname(out) or ".", exist_ok=True)
bpy.ops.export_scene.fbx(
    filepath=out,
    global_scale=scale,
` + opts.String() + `)
objects = [o.name for o in bpy.context.selected_objects if o.type == 'MESH']
print("` + reportPrefix + `" + json.dumps({"fbx": out, "objects": objects}))
`
}

// parseExportReport extracts the report line from Blender's stdout
func parseExportReport(stdout string) (*ports.ExportResult, error) {
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var line string
	for scanner.Scan() {
		if text := scanner.Text(); strings.HasPrefix(text, reportPrefix) {
			line = strings.TrimPrefix(text, reportPrefix)
		}
	}
	if line == "" {
		return nil, fmt.Errorf("%w: blender did not report an export result", application.ErrExportFailed)
	}

	var report exportReport
	if err := json.Unmarshal([]byte(line), &report); err != nil {
		return nil, fmt.Errorf("failed to parse export report: %w", err)
	}
	if report.FBX == "" {
		return nil, fmt.Errorf("%w: export report has no fbx path", application.ErrExportFailed)
	}

	return &ports.ExportResult{
		FBXPath: report.FBX,
		Objects: report.Objects,
	}, nil
}
