package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is a checked-in description of one generation.
//
//	commit: 4f13107aac59fe418043f9edfdaef3b7da579614
//	package: protocol
//	out_dir: ../gen
//	sources:
//	  - json/js_protocol.json
//	  - json/browser_protocol.json
type Manifest struct {
	Commit  string   `yaml:"commit"`
	Package string   `yaml:"package"`
	File    string   `yaml:"file"`
	OutDir  string   `yaml:"out_dir"`
	Sources []string `yaml:"sources"`
}

// LoadManifest reads a manifest. Relative sources and out_dir are resolved
// against the manifest's directory. Unknown keys are rejected.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, src := range m.Sources {
		m.Sources[i] = resolvePath(base, src)
	}
	if m.OutDir != "" {
		m.OutDir = resolvePath(base, m.OutDir)
	}
	return &m, nil
}

func validateManifest(m *Manifest) error {
	for i, src := range m.Sources {
		if src == "" {
			return fmt.Errorf("sources[%d] is empty", i)
		}
	}
	if m.File != "" && filepath.Base(m.File) != m.File {
		return errors.New("file must be a bare file name")
	}
	return nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
