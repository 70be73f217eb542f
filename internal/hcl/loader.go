package hcl

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/scriptui/internal/config"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/fsutil"
	"github.com/vk/scriptui/internal/schema"
)

var _ config.Loader = (*Loader)(nil)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths. A path that does not exist is
// skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, model, hclFile, file); err != nil {
			return nil, err
		}
	}
	logger.Debug("HCL loading complete.", "types", len(model.Types), "namespaces", len(model.Namespaces))
	return model, nil
}

// LoadSources parses manifests that are already in memory.
func (l *Loader) LoadSources(ctx context.Context, sources ...config.Source) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, src := range sources {
		hclFile, diags := parser.ParseHCL(src.Data, src.Name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL source %s: %w", src.Name, diags)
		}
		if err := l.decodeInto(ctx, model, hclFile, src.Name); err != nil {
			return nil, err
		}
		logger.Debug("Loaded embedded manifest.", "source", src.Name)
	}
	return model, nil
}

func (l *Loader) decodeInto(ctx context.Context, model *config.Model, file *hcl.File, name string) error {
	var root schema.ManifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}

	part := config.NewModel()
	for _, t := range root.Types {
		def, err := translateType(ctx, t, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := part.Types[def.Name]; dup {
			return fmt.Errorf("%s: type %q is defined twice", name, def.Name)
		}
		part.Types[def.Name] = def
	}
	for _, ns := range root.Namespaces {
		def, err := translateNamespace(ctx, ns, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := part.Namespaces[def.Name]; dup {
			return fmt.Errorf("%s: namespace %q is defined twice", name, def.Name)
		}
		part.Namespaces[def.Name] = def
	}
	return model.Merge(part)
}

// findAllHCLFiles walks all given paths and returns a sorted, de-duplicated
// list of the .hcl files found.
func findAllHCLFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var all []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		files := []string{path}
		if info.IsDir() {
			files, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
		}
		for _, f := range files {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				all = append(all, f)
			}
		}
	}
	sort.Strings(all)
	return all, nil
}
