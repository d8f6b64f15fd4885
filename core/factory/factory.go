// Package factory provides a small generic registry used to build pluggable
// components (metrics sinks, oracle engines, solvers) from configuration.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Spec names a component implementation and carries its raw settings.
type Spec struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Builder constructs an implementation of T from raw settings.
type Builder[T any] func(map[string]any) (T, error)

// Registry maps type names to builders.
type Registry[T any] struct {
	mu       sync.RWMutex
	builders map[string]Builder[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{builders: make(map[string]Builder[T])}
}

// Register adds a builder under the given type name. Registering the same
// name twice is an error.
func (r *Registry[T]) Register(name string, b Builder[T]) error {
	if b == nil {
		return fmt.Errorf("nil builder for %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[name]; ok {
		return fmt.Errorf("builder %q already registered", name)
	}
	r.builders[name] = b
	return nil
}

// Build instantiates a component from its spec.
func (r *Registry[T]) Build(spec Spec) (T, error) {
	r.mu.RLock()
	b, ok := r.builders[spec.Type]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown component type %q (have %v)", spec.Type, r.Names())
	}
	return b(spec.Conf)
}

// Names lists the registered type names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for n := range r.builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Decode fills out using the spec's raw settings, matching by json tag.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
