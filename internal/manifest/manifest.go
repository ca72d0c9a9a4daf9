// Package manifest loads system declarations from YAML or HCL files and
// registers them on a scheduler builder.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/logger"
	"github.com/maxkimambo/sysgraph/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Format identifies a manifest encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// SystemSpec declares one system and the systems it depends on
type SystemSpec struct {
	Name        string   `yaml:"name" hcl:"name,label"`
	Description string   `yaml:"description,omitempty" hcl:"description,optional"`
	DependsOn   []string `yaml:"depends_on,omitempty" hcl:"depends_on,optional"`
}

// Manifest lists systems in registration order
type Manifest struct {
	Systems []SystemSpec `yaml:"systems" hcl:"system,block"`

	// Path is the file the manifest was loaded from, if any
	Path string `yaml:"-"`
}

// FactoryFor builds the factory registered for a declared system
type FactoryFor func(spec SystemSpec) scheduler.SystemFactory

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", syserrors.NewManifestError(syserrors.CodeConfigFormat,
			fmt.Sprintf("Unsupported manifest extension %q", filepath.Ext(path)), path, nil).
			WithTroubleshooting("Use a .yaml, .yml or .hcl file")
	}
}

// Load reads and validates the manifest at path
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, syserrors.NewManifestError(syserrors.CodeConfigRead,
			"Failed to read manifest", path, err)
	}

	m, err := parse(data, format, path)
	if err != nil {
		return nil, err
	}
	m.Path = path

	if err := m.Validate(); err != nil {
		return nil, err
	}

	logger.Op.WithFields(map[string]interface{}{
		"path":    path,
		"format":  string(format),
		"systems": len(m.Systems),
	}).Debug("loaded manifest")
	return m, nil
}

// Parse decodes a manifest held in memory. The result is not validated.
func Parse(data []byte, format Format) (*Manifest, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, path string) (*Manifest, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data, path)
	case FormatHCL:
		return parseHCL(data, path)
	default:
		return nil, syserrors.NewManifestError(syserrors.CodeConfigFormat,
			fmt.Sprintf("Unsupported manifest format %q", format), path, nil)
	}
}

func parseYAML(data []byte, path string) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		// an empty document decodes to an empty manifest
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, syserrors.NewManifestError(syserrors.CodeConfigDecode,
			"Failed to decode YAML manifest", path, err)
	}
	return &m, nil
}

func parseHCL(data []byte, path string) (*Manifest, error) {
	filename := path
	if filename == "" {
		filename = "manifest.hcl"
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, syserrors.NewManifestError(syserrors.CodeConfigDecode,
			"Failed to parse HCL manifest", path, diags)
	}

	var m Manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, syserrors.NewManifestError(syserrors.CodeConfigDecode,
			"Failed to decode HCL manifest", path, diags)
	}
	return &m, nil
}

// Validate checks that the manifest declares at least one system and that
// every name is non-empty. Repeated names are allowed; their dependencies
// accumulate.
func (m *Manifest) Validate() error {
	if len(m.Systems) == 0 {
		return syserrors.NewManifestError(syserrors.CodeConfigEmpty,
			"Manifest declares no systems", m.Path, nil)
	}

	for i, s := range m.Systems {
		if s.Name == "" {
			return syserrors.NewManifestError(syserrors.CodeConfigSystem,
				"System name cannot be empty", m.Path, nil).
				WithContext("index", i)
		}
		for _, dep := range s.DependsOn {
			if dep == "" {
				return syserrors.NewManifestError(syserrors.CodeConfigSystem,
					"Dependency name cannot be empty", m.Path, nil).
					WithContext("system", s.Name).
					WithContext("index", i)
			}
		}
	}
	return nil
}

// Names returns the declared system names, first declaration order, without repeats
func (m *Manifest) Names() []string {
	seen := make(map[string]bool, len(m.Systems))
	var names []string
	for _, s := range m.Systems {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	return names
}

// Unresolved returns dependency names that no entry declares, in the order
// they are first mentioned
func (m *Manifest) Unresolved() []string {
	declared := make(map[string]bool, len(m.Systems))
	for _, s := range m.Systems {
		declared[s.Name] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, s := range m.Systems {
		for _, dep := range s.DependsOn {
			if !declared[dep] && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	return missing
}

// Apply registers every entry on b in declaration order. The first
// registration error stops it; entries applied before stay registered.
func (m *Manifest) Apply(b *scheduler.Builder, factoryFor FactoryFor) error {
	for _, s := range m.Systems {
		var err error
		if len(s.DependsOn) == 0 {
			_, err = b.AddSystem(s.Name, factoryFor(s))
		} else {
			_, err = b.AddSystemWithDeps(s.Name, factoryFor(s), s.DependsOn)
		}
		if err != nil {
			return fmt.Errorf("manifest entry %q: %w", s.Name, err)
		}
	}
	return nil
}
