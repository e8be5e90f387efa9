package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// ID is the unique identifier of one graph member. Selection logic treats it
// as an opaque key; only parsing and display code look inside.
type ID string

// segmentRegex matches a single identifier segment between dots.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// minSegments is the shortest well-formed identifier: kind.package.name.
const minSegments = 3

// Parse validates a raw identifier string and returns it as an ID.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return "", fmt.Errorf("identifier cannot be empty")
	}

	segments := strings.Split(raw, ".")
	if len(segments) < minSegments {
		return "", fmt.Errorf("identifier %q must have at least %d dot-separated segments", raw, minSegments)
	}
	for _, segment := range segments {
		if segment == "" {
			return "", fmt.Errorf("identifier %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return "", fmt.Errorf("invalid segment %q in identifier %q", segment, raw)
		}
	}

	return ID(raw), nil
}

// New assembles an ID from its segments without validation. Intended for
// tests and fixture builders.
func New(kind, pkg string, rest ...string) ID {
	parts := append([]string{kind, pkg}, rest...)
	return ID(strings.Join(parts, "."))
}

// String returns the canonical string form.
func (id ID) String() string {
	return string(id)
}

// Kind returns the leading resource-kind segment, or "" for a malformed id.
func (id ID) Kind() string {
	if i := strings.IndexByte(string(id), '.'); i >= 0 {
		return string(id)[:i]
	}
	return ""
}

// Package returns the second segment, the owning package, or "" for a
// malformed id.
func (id ID) Package() string {
	segments := strings.SplitN(string(id), ".", 3)
	if len(segments) < minSegments {
		return ""
	}
	return segments[1]
}

// Name returns the trailing resource segment.
func (id ID) Name() string {
	if i := strings.LastIndexByte(string(id), '.'); i >= 0 {
		return string(id)[i+1:]
	}
	return string(id)
}
