// Package collections loads the editorial collection registry. The
// registry is operator-maintained YAML; the API serves it read-only
// and validates collection tags in access groups against it.
package collections

import (
	"fmt"
	"io"
	"os"

	"github.com/lumenlearn/objecthub/internal/domain"
	"gopkg.in/yaml.v3"
)

type registryFile struct {
	Kind        string              `yaml:"kind"`
	Version     string              `yaml:"version"`
	Collections []domain.Collection `yaml:"collections"`
}

func (f *registryFile) validate() error {
	if f.Kind != "CollectionRegistry" {
		return fmt.Errorf("kind must be CollectionRegistry, got %q", f.Kind)
	}
	if f.Version == "" {
		return fmt.Errorf("version is required")
	}
	seen := make(map[string]bool)
	for i, c := range f.Collections {
		if c.Tag == "" {
			return fmt.Errorf("collections[%d] must have tag defined", i)
		}
		if c.Name == "" {
			return fmt.Errorf("collections[%d] must have name defined", i)
		}
		if seen[c.Tag] {
			return fmt.Errorf("duplicate collection tag %q", c.Tag)
		}
		seen[c.Tag] = true
	}
	return nil
}

// Registry is an immutable snapshot of the collection registry.
type Registry struct {
	collections []domain.Collection
	byTag       map[string]domain.Collection
}

func Load(reader io.Reader) (*Registry, error) {
	decoder := yaml.NewDecoder(reader)
	var file registryFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode collection registry: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid collection registry: %w", err)
	}

	byTag := make(map[string]domain.Collection, len(file.Collections))
	for _, c := range file.Collections {
		byTag[c.Tag] = c
	}
	return &Registry{collections: file.Collections, byTag: byTag}, nil
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection registry: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// All returns the collections in registry order.
func (r *Registry) All() []domain.Collection {
	out := make([]domain.Collection, len(r.collections))
	copy(out, r.collections)
	return out
}

func (r *Registry) Get(tag string) (domain.Collection, bool) {
	c, ok := r.byTag[tag]
	return c, ok
}

func (r *Registry) Has(tag string) bool {
	_, ok := r.byTag[tag]
	return ok
}
