package manifest

import (
	"errors"
	"fmt"

	"github.com/vk/dagselect/internal/nodeid"
)

// ErrNotFound signals an id that could not be resolved against the
// manifest. When it surfaces during graph traversal it indicates an
// internal consistency bug, not bad user input: the working graph is built
// from the manifest, so every traversed id must resolve.
var ErrNotFound = errors.New("not found in the manifest")

// Member is one entry in the dependency graph: a model, test, seed,
// snapshot, operation, analysis, source or exposure. A single struct covers
// all kinds so lookups return one tagged value instead of probing separate
// collections.
type Member struct {
	// ID is the unique identifier, e.g. "model.my_project.orders".
	ID nodeid.ID
	// Kind is the member's resource kind.
	Kind ResourceKind
	// Name is the human-readable display name.
	Name string
	// Package is the owning package name.
	Package string
	// FQN is the fully-qualified name path used by name-based selection.
	FQN []string
	// Path is the project-relative source path, used by path-based selection.
	Path string
	// Tags are free-form labels used by tag-based selection.
	Tags []string
	// Config carries arbitrary configuration key/value pairs for
	// config-based selection.
	Config map[string]string
	// Enabled is false for members disabled in configuration; disabled
	// members never join the working graph.
	Enabled bool
	// Empty is true for nodes without materializable content (e.g. a model
	// file containing only whitespace).
	Empty bool
	// DependsOn lists the member's direct parents, in declaration order.
	DependsOn []nodeid.ID
}

// HasTag reports whether the member carries the given tag.
func (m *Member) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Manifest is an immutable id-to-member catalogue.
type Manifest struct {
	members map[nodeid.ID]*Member
}

// New builds a Manifest from a list of members. Duplicate ids are rejected.
func New(members []*Member) (*Manifest, error) {
	byID := make(map[nodeid.ID]*Member, len(members))
	for _, m := range members {
		if _, exists := byID[m.ID]; exists {
			return nil, fmt.Errorf("duplicate member id %q", m.ID)
		}
		byID[m.ID] = m
	}
	return &Manifest{members: byID}, nil
}

// Member looks up a member by id.
func (mf *Manifest) Member(id nodeid.ID) (*Member, bool) {
	m, ok := mf.members[id]
	return m, ok
}

// MustMember looks up a member that is required to exist, wrapping
// ErrNotFound when it does not.
func (mf *Manifest) MustMember(id nodeid.ID) (*Member, error) {
	m, ok := mf.members[id]
	if !ok {
		return nil, fmt.Errorf("member %q: %w", id, ErrNotFound)
	}
	return m, nil
}

// IDs returns the set of all member ids.
func (mf *Manifest) IDs() nodeid.Set {
	ids := nodeid.NewSet()
	for id := range mf.members {
		ids.Insert(id)
	}
	return ids
}

// Len returns the number of members.
func (mf *Manifest) Len() int {
	return len(mf.members)
}
