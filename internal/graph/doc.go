// Package graph provides the dependency-graph snapshot the selector queries:
// ancestor/descendant traversal with optional depth bounds, induced
// subgraphs, the one-hop successor frontier, and the ancestry-preserving
// subset graph handed to the scheduling queue.
//
// A Graph is built once (AddNode/AddEdge, then Validate) and is treated as
// immutable afterwards. All query operations are pure reads, so concurrent
// selections over the same snapshot are safe without locking.
package graph
