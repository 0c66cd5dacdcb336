package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/fsutil"
)

// LoadRecursively registers every definition found in the .hcl files under
// path and validates the registry afterwards. path may also name a single file.
func (r *Registry) LoadRecursively(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading definitions from library path...", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		logger.Error("Failed to walk library directory", "path", path, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl library files found in path", "path", path)
		return nil
	}
	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}
		if err := r.register(ctx, hclFile, filePath); err != nil {
			return err
		}
	}

	if err := r.Validate(ctx); err != nil {
		return err
	}
	logger.Info("Registry loaded successfully.", "types", len(r.types), "node_types", len(r.nodeTypes))
	return nil
}

// LoadSource registers the definitions of an in-memory library file and
// validates the registry afterwards.
func (r *Registry) LoadSource(ctx context.Context, src []byte, filename string) error {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	if err := r.register(ctx, hclFile, filename); err != nil {
		return err
	}
	return r.Validate(ctx)
}

func (r *Registry) register(ctx context.Context, hclFile *hcl.File, filePath string) error {
	types, nodeTypes, diags := ParseFile(ctx, hclFile, filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to process library definitions in %s: %w", filePath, diags)
	}
	for _, d := range types {
		if err := r.RegisterType(d); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
	}
	for _, nt := range nodeTypes {
		if err := r.RegisterNodeType(nt); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Successfully loaded definitions from HCL file", "file", filePath)
	return nil
}
