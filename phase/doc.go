// Package phase implements the dependency-tracked computation graph that
// drives the icarus pipeline: a sequence of named Phases, each declaring
// the property names it reads and writes, executed in an order validated
// against the declared dependency DAG (via dfs.TopologicalSort), with
// results cached under a key derived from the transitive closure of every
// upstream phase description that contributed to them.
package phase
