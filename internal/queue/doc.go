// Package queue provides the execution queue handed to a scheduler after
// selection: a dependency-ordered view over the selected subset graph that
// yields a node once all of its parents have completed.
//
// Ownership of the selected set and subset graph transfers to the queue in
// a one-shot handoff. Unlike the selector, the queue is mutable and
// thread-safe: executor workers call Get and Done concurrently.
package queue
