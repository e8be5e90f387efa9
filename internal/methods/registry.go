package methods

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
)

// Method reduces a candidate id set to the members matching value.
// Implementations are pure: no side effects, no mutation of candidates.
type Method interface {
	Search(candidates nodeid.Set, value string) nodeid.Set
}

// UnknownMethodError reports a selection method name with no registered
// matcher. It carries the known names for the user-facing diagnostic.
type UnknownMethodError struct {
	Name  string
	Known []string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown selection method %q, must be one of [%s]", e.Name, strings.Join(e.Known, ", "))
}

// factory builds a method instance from its arguments.
type factory func(args map[string]string) (Method, error)

// Registry holds the selection methods available for one manifest snapshot.
type Registry struct {
	manifest  *manifest.Manifest
	factories map[string]factory
}

// NewRegistry creates a registry with the built-in methods bound to the
// given manifest.
func NewRegistry(mf *manifest.Manifest) *Registry {
	r := &Registry{
		manifest:  mf,
		factories: make(map[string]factory),
	}
	r.register("fqn", func(map[string]string) (Method, error) {
		return &fqnMethod{mf}, nil
	})
	r.register("name", func(map[string]string) (Method, error) {
		return &nameMethod{mf}, nil
	})
	r.register("tag", func(map[string]string) (Method, error) {
		return &tagMethod{mf}, nil
	})
	r.register("path", func(map[string]string) (Method, error) {
		return &pathMethod{mf}, nil
	})
	r.register("package", func(map[string]string) (Method, error) {
		return &packageMethod{mf}, nil
	})
	r.register("resource_type", func(map[string]string) (Method, error) {
		return &resourceTypeMethod{mf}, nil
	})
	r.register("config", func(args map[string]string) (Method, error) {
		key, ok := args["key"]
		if !ok || key == "" {
			return nil, fmt.Errorf("the config method requires a key argument, e.g. config.materialized:view")
		}
		return &configMethod{mf, key}, nil
	})
	return r
}

// register installs a factory under a method name.
func (r *Registry) register(name string, f factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("selection method %q already registered", name))
	}
	r.factories[name] = f
}

// Method resolves a method by name and arguments. An unrecognized name
// yields an UnknownMethodError; bad arguments for a known method are a
// plain error.
func (r *Registry) Method(name string, args map[string]string) (Method, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownMethodError{Name: name, Known: r.Names()}
	}
	return f(args)
}

// Names returns the sorted list of registered method names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// searchMembers runs pred over every candidate that resolves in the
// manifest and collects the ids that match.
func searchMembers(mf *manifest.Manifest, candidates nodeid.Set, pred func(*manifest.Member) bool) nodeid.Set {
	matched := nodeid.NewSet()
	for id := range candidates {
		if m, ok := mf.Member(id); ok && pred(m) {
			matched.Insert(id)
		}
	}
	return matched
}
