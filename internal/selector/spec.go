package selector

import (
	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/nodeid"
)

// Spec is one node of a selection spec tree: either a Criteria leaf or a
// Composite combining child specs with a set operation. Specs are built
// once by a parser and never mutated afterwards.
type Spec interface {
	// Raw returns the original textual form, for diagnostics.
	Raw() string
	// ExpectExists reports whether an empty match should be surfaced to
	// the user as a warning.
	ExpectExists() bool

	isSpec()
}

// Criteria is a leaf spec: one selection method invocation plus the
// traversal modifiers applied to its matches.
type Criteria struct {
	// Method names the selection method, e.g. "fqn" or "tag".
	Method string
	// MethodArgs carries method-specific arguments, e.g. the config key
	// for config.materialized:view.
	MethodArgs map[string]string
	// Value is the pattern handed to the method.
	Value string

	// ChildrensParents selects the matches' descendants plus everything
	// those descendants depend on (the "@" modifier).
	ChildrensParents bool
	// Parents selects ancestors up to ParentsDepth hops.
	Parents bool
	// ParentsDepth bounds the ancestor traversal; graph.Unbounded when no
	// bound was given.
	ParentsDepth int
	// Children selects descendants up to ChildrenDepth hops.
	Children bool
	// ChildrenDepth bounds the descendant traversal; graph.Unbounded when
	// no bound was given.
	ChildrenDepth int

	// Greedy selects a dependent check node as soon as any of its parents
	// is selected, instead of requiring all of them. Used for exclusions.
	Greedy bool

	RawSpec          string
	ExpectExistsFlag bool
}

func (c *Criteria) Raw() string        { return c.RawSpec }
func (c *Criteria) ExpectExists() bool { return c.ExpectExistsFlag }
func (c *Criteria) isSpec()            {}

// NewCriteria returns a criterion with unbounded traversal depths and no
// modifiers set, matching value via the given method.
func NewCriteria(method, value string) *Criteria {
	return &Criteria{
		Method:        method,
		Value:         value,
		ParentsDepth:  graph.Unbounded,
		ChildrenDepth: graph.Unbounded,
		RawSpec:       method + ":" + value,
	}
}

// Operator is the set operation of a composite spec.
type Operator int

const (
	// Union keeps nodes selected by any child.
	Union Operator = iota
	// Intersection keeps nodes selected by every child.
	Intersection
	// Difference keeps nodes selected by the first child and none of the
	// rest.
	Difference
)

// String returns the operator name for diagnostics.
func (op Operator) String() string {
	switch op {
	case Union:
		return "union"
	case Intersection:
		return "intersection"
	case Difference:
		return "difference"
	default:
		return "unknown"
	}
}

// Composite combines an ordered list of child specs with one operator.
type Composite struct {
	Op       Operator
	Children []Spec

	RawSpec          string
	ExpectExistsFlag bool
}

func (c *Composite) Raw() string        { return c.RawSpec }
func (c *Composite) ExpectExists() bool { return c.ExpectExistsFlag }
func (c *Composite) isSpec()            {}

// NewComposite builds a composite over the given children. The raw form is
// assembled from the children for diagnostics.
func NewComposite(op Operator, children ...Spec) *Composite {
	raw := ""
	for i, child := range children {
		if i > 0 {
			raw += " " + op.String() + " "
		}
		raw += child.Raw()
	}
	return &Composite{Op: op, Children: children, RawSpec: raw}
}

// combined applies the operator across the per-child sets, in order.
// Difference is left-associative: the first set minus all the rest.
func (c *Composite) combined(sets []nodeid.Set) nodeid.Set {
	if len(sets) == 0 {
		return nodeid.NewSet()
	}
	result := sets[0].Clone()
	for _, s := range sets[1:] {
		switch c.Op {
		case Union:
			result = result.Union(s)
		case Intersection:
			result = result.Intersection(s)
		case Difference:
			result = result.Difference(s)
		}
	}
	return result
}
