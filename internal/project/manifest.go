// Package project loads a ferrite project: the ferrite.yaml manifest, the
// trait source files it names, and the compilation-unit (ingot) identity
// everything downstream is scoped to.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ferrite-lang/ferrite/internal/config"
)

// Manifest represents the top-level ferrite.yaml configuration.
type Manifest struct {
	// Package is the ingot name, used in output only.
	Package string `yaml:"package"`

	// Sources lists source files relative to the project directory. When
	// empty, every recognized source file in the directory is included.
	Sources []string `yaml:"sources,omitempty"`
}

// LoadManifest reads ferrite.yaml from dir. A missing manifest is not an
// error: the directory name becomes the package and sources default to a
// directory scan.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, config.ManifestFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Package: filepath.Base(dir)}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Package == "" {
		m.Package = filepath.Base(dir)
	}
	return &m, nil
}

// sourceFiles resolves the manifest's source list against dir, falling
// back to a sorted directory scan for recognized extensions.
func (m *Manifest) sourceFiles(dir string) ([]string, error) {
	if len(m.Sources) > 0 {
		files := make([]string, len(m.Sources))
		for i, s := range m.Sources {
			files[i] = filepath.Join(dir, s)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range config.SourceFileExtensions {
			if filepath.Ext(e.Name()) == ext {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	// ReadDir returns entries sorted by name, so the file order is stable.
	return files, nil
}
