// Package syntax parses textual selection criteria into a selection spec
// tree. The grammar follows the established selector shorthand:
// `[@][N+]method:value[+N]`, where the method defaults to fqn, `+` pulls in
// ancestors or descendants (optionally depth-bounded), and `@` pulls in
// descendants plus everything those descendants depend on. Comma-joined
// terms intersect; separate terms union; an exclude list subtracts from
// the include union.
package syntax

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/selector"
)

// DefaultMethod is applied when a term names no method, so a bare
// `my_model` selects by fully-qualified name.
const DefaultMethod = "fqn"

// termPattern captures the parts of one selection term.
var termPattern = regexp.MustCompile(
	`\A` +
		`(?P<childrens_parents>@)?` +
		`(?P<parents>(?P<parents_depth>\d*)\+)?` +
		`(?:(?P<method>[\w.]+):)?` +
		`(?P<value>.*?)` +
		`(?P<children>\+(?P<children_depth>\d*))?` +
		`\z`)

// group extracts a named capture from a termPattern match.
func group(match []string, name string) string {
	return match[termPattern.SubexpIndex(name)]
}

// ParseTerm parses one selection term into a leaf criterion.
func ParseTerm(raw string) (*selector.Criteria, error) {
	match := termPattern.FindStringSubmatch(raw)
	if match == nil || group(match, "value") == "" {
		return nil, fmt.Errorf("invalid selection criterion %q", raw)
	}

	c := selector.NewCriteria(DefaultMethod, group(match, "value"))
	c.RawSpec = raw

	if method := group(match, "method"); method != "" {
		// Dotted methods carry an argument, e.g. config.materialized.
		name, arg, found := strings.Cut(method, ".")
		c.Method = name
		if found {
			c.MethodArgs = map[string]string{"key": arg}
		}
	}

	c.ChildrensParents = group(match, "childrens_parents") != ""
	c.Parents = group(match, "parents") != ""
	c.Children = group(match, "children") != ""
	if c.ChildrensParents && (c.Parents || c.Children) {
		return nil, fmt.Errorf("invalid selection criterion %q: @ cannot be combined with +", raw)
	}

	var err error
	if c.ParentsDepth, err = parseDepth(group(match, "parents_depth")); err != nil {
		return nil, fmt.Errorf("invalid selection criterion %q: %w", raw, err)
	}
	if c.ChildrenDepth, err = parseDepth(group(match, "children_depth")); err != nil {
		return nil, fmt.Errorf("invalid selection criterion %q: %w", raw, err)
	}
	return c, nil
}

// parseDepth converts an optional digit run into a traversal depth.
func parseDepth(raw string) (int, error) {
	if raw == "" {
		return graph.Unbounded, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid traversal depth %q", raw)
	}
	return depth, nil
}

// parseIntersection parses one include/exclude argument. Comma-joined
// terms form an intersection; a single term stays a leaf.
func parseIntersection(raw string, greedy, expectExists bool) (selector.Spec, error) {
	terms := strings.Split(raw, ",")
	children := make([]selector.Spec, 0, len(terms))
	for _, term := range terms {
		c, err := ParseTerm(term)
		if err != nil {
			return nil, err
		}
		c.Greedy = greedy
		c.ExpectExistsFlag = expectExists
		children = append(children, c)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	spec := selector.NewComposite(selector.Intersection, children...)
	spec.RawSpec = raw
	return spec, nil
}

// ParseSpec builds the spec tree for a full selection: the union of the
// include arguments minus the union of the exclude arguments. Exclusion
// leaves are always greedy, so a check node is dropped as soon as any of
// its subjects is excluded; inclusion leaves are greedy only when the
// caller asks for eager indirect selection. An empty include list selects
// everything.
func ParseSpec(include, exclude []string, greedy bool) (selector.Spec, error) {
	if len(include) == 0 {
		include = []string{DefaultMethod + ":*"}
	}

	included := make([]selector.Spec, 0, len(include))
	for _, raw := range include {
		spec, err := parseIntersection(raw, greedy, true)
		if err != nil {
			return nil, err
		}
		included = append(included, spec)
	}
	result := selector.Spec(selector.NewComposite(selector.Union, included...))

	if len(exclude) > 0 {
		excluded := make([]selector.Spec, 0, len(exclude))
		for _, raw := range exclude {
			spec, err := parseIntersection(raw, true, false)
			if err != nil {
				return nil, err
			}
			excluded = append(excluded, spec)
		}
		result = selector.NewComposite(selector.Difference,
			result, selector.NewComposite(selector.Union, excluded...))
	}
	return result, nil
}
