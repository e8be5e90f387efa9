/*
Package nodeid provides the identifier type for graph members and the set
type the selection algebra operates on.

An identifier is a dot-separated path of at least three segments,
e.g. `model.my_project.orders` or `source.my_project.raw.events`. The first
segment names the resource kind, the second the owning package, and the
remainder the resource itself. The package enforces the identifier schema
and centralizes all parsing logic.
*/
package nodeid
