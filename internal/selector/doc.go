// Package selector turns a selection spec — a tree of criteria combined by
// set operations — into the concrete set of graph members to execute.
//
// Evaluation happens in two layers. The structural layer walks the spec
// tree: leaves resolve through a selection method and the traversal
// modifiers on the criterion, composites combine child results with union,
// intersection or difference. The closure layer handles indirect selection
// of check nodes: a test attached to a selected subject joins the result
// directly when all of its parents are selected (or greedily, for
// exclusion specs), and is otherwise carried as "indirect" until enough of
// its parents show up in a surrounding composite.
package selector
