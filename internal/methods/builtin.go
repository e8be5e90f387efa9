package methods

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
)

// fnmatch reports whether name matches an fnmatch-style pattern. A pattern
// without wildcards degrades to string equality; malformed patterns match
// nothing.
func fnmatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// fqnMethod matches members by fully-qualified name: the pattern is applied
// to the dotted FQN and to its trailing segment, so both `shop.orders` and
// a bare `orders` select the same model.
type fqnMethod struct {
	mf *manifest.Manifest
}

func (s *fqnMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		if len(m.FQN) == 0 {
			return false
		}
		dotted := strings.Join(m.FQN, ".")
		return fnmatch(value, dotted) || fnmatch(value, m.FQN[len(m.FQN)-1])
	})
}

// nameMethod matches the display name with fnmatch-style wildcards.
type nameMethod struct {
	mf *manifest.Manifest
}

func (s *nameMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		return fnmatch(value, m.Name)
	})
}

// tagMethod matches members carrying the exact tag.
type tagMethod struct {
	mf *manifest.Manifest
}

func (s *tagMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		return m.HasTag(value)
	})
}

// pathMethod matches the project-relative source path against a glob.
// Double-star globs are supported so `models/**` covers nested directories.
type pathMethod struct {
	mf *manifest.Manifest
}

func (s *pathMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		if m.Path == "" {
			return false
		}
		ok, err := doublestar.Match(value, m.Path)
		return err == nil && ok
	})
}

// packageMethod matches the owning package name.
type packageMethod struct {
	mf *manifest.Manifest
}

func (s *packageMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		return fnmatch(value, m.Package)
	})
}

// resourceTypeMethod matches the member kind by its wire name.
type resourceTypeMethod struct {
	mf *manifest.Manifest
}

func (s *resourceTypeMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		return m.Kind.String() == value
	})
}

// configMethod matches one configuration key against the pattern value,
// e.g. config.materialized:view.
type configMethod struct {
	mf  *manifest.Manifest
	key string
}

func (s *configMethod) Search(candidates nodeid.Set, value string) nodeid.Set {
	return searchMembers(s.mf, candidates, func(m *manifest.Member) bool {
		got, ok := m.Config[s.key]
		return ok && got == value
	})
}
